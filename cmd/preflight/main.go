package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/go-preflight/internal/config"
	"github.com/askiada/go-preflight/internal/report"
	"github.com/askiada/go-preflight/pkg/git"
	"github.com/askiada/go-preflight/pkg/preflight"
	"github.com/askiada/go-preflight/pkg/preflight/drawer"
	"github.com/askiada/go-preflight/pkg/preflight/measure"
	"github.com/askiada/go-preflight/pkg/preflight/model"
)

var errNotRepository = errors.New("not a git repository")

type flags struct {
	dir           string
	configFile    string
	requiredGit   string
	releaseBranch string
	gitBinary     string
	graph         string
	logLevel      string
	verbose       bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:           "preflight",
		Short:         "Verify the repository is ready for a release",
		Long:          `Run the release checks: package.json, git version, clean working directory, release branch, production dependencies, remote and upstream synchronisation.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}

			return run(cmd.Context(), f, cfg)
		},
	}

	cmd.Flags().StringVarP(&f.dir, "dir", "C", ".", "directory of the package to release")
	cmd.Flags().StringVar(&f.configFile, "config", "", "configuration file (default <dir>/"+config.FileName+")")
	cmd.Flags().StringVar(&f.requiredGit, "required-git", config.DefaultRequiredGit, "version range git must satisfy")
	cmd.Flags().StringVar(&f.releaseBranch, "release-branch", config.DefaultReleaseBranch, "branch stable versions are released from")
	cmd.Flags().StringVar(&f.gitBinary, "git-binary", config.DefaultGitBinary, "git executable")
	cmd.Flags().StringVar(&f.graph, "graph", "", "write the executed checks as a DOT graph to this file")
	cmd.Flags().StringVar(&f.logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "print progress titles")

	return cmd
}

// resolveConfig loads the configuration file, flags set on the command line take precedence.
func resolveConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	path, required := f.configFile, true
	if path == "" {
		path, required = filepath.Join(f.dir, config.FileName), false
	}

	cfg, err := config.Load(path, required)
	if err != nil {
		return cfg, err
	}

	overrides := map[string]*string{
		"required-git":   &cfg.RequiredGit,
		"release-branch": &cfg.ReleaseBranch,
		"git-binary":     &cfg.GitBinary,
		"graph":          &cfg.Graph,
		"log-level":      &cfg.LogLevel,
	}

	for name, target := range overrides {
		if !cmd.Flags().Changed(name) {
			continue
		}

		value, err := cmd.Flags().GetString(name)
		if err != nil {
			return cfg, errors.Wrapf(err, "unable to read flag %s", name)
		}

		*target = value
	}

	return cfg, nil
}

func run(ctx context.Context, f *flags, cfg config.Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", cfg.LogLevel)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: level, Prefix: "preflight"})

	inspector := git.NewInspector(git.NewExecRunner(cfg.GitBinary, f.dir, logger))
	if !inspector.IsRepository(ctx) {
		return errNotRepository
	}

	observers := []model.PipelineOption{report.New(os.Stdout, f.verbose)}

	if cfg.Graph != "" {
		msr := measure.NewDefaultMeasure()
		observers = append(observers,
			measure.PipelineMeasure(msr),
			drawer.PipelineDrawer(drawer.NewDOTDrawer(cfg.Graph), msr),
		)
	}

	pipe, err := preflight.New(
		preflight.WithRepository(inspector),
		preflight.WithLogger(logger),
		preflight.WithObservers(observers...),
	)
	if err != nil {
		return errors.Wrap(err, "unable to create pipeline")
	}

	logger.Debug("Starting preflight checks", "dir", f.dir, "required_git", cfg.RequiredGit, "release_branch", cfg.ReleaseBranch)

	return pipe.Run(ctx, preflight.NewRunContext(f.dir, cfg.RequiredGit, cfg.ReleaseBranch))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := newRootCmd().ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
