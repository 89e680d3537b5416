// Package git runs the git binary and turns its free-form output into answers
// about the repository: current branch, tool version, working tree status,
// remote reachability and upstream synchronisation.
//
// The textual patterns the answers depend on only live in this package.
package git
