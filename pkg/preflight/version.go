package preflight

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// cleanVersion normalises an exact version, dropping surrounding spaces, leading '=' or 'v' and build
// metadata. It returns false for anything that is not an exact version, such as ranges or tags.
func cleanVersion(raw string) (string, bool) {
	trimmed := strings.TrimLeft(strings.TrimSpace(raw), "=v")

	v, err := semver.StrictNewVersion(trimmed)
	if err != nil {
		return "", false
	}

	cleaned := fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
	if pre := v.Prerelease(); pre != "" {
		cleaned += "-" + pre
	}

	return cleaned, true
}

func isPrerelease(cleaned string) bool {
	return strings.Contains(cleaned, "-")
}

// satisfies reports whether version is in rangeExpr. Prerelease versions are compared by their release
// part so they are not excluded by ranges that do not mention a prerelease.
func satisfies(version, rangeExpr string) (bool, error) {
	constraint, err := semver.NewConstraint(rangeExpr)
	if err != nil {
		return false, errors.Wrapf(err, "invalid version range %q", rangeExpr)
	}

	v, err := semver.NewVersion(version)
	if err != nil {
		return false, nil
	}

	if v.Prerelease() != "" {
		release, err := v.SetPrerelease("")
		if err == nil {
			v = &release
		}
	}

	return constraint.Check(v), nil
}
