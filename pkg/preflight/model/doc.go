// Package model provides the data structures shared by the preflight pipeline and its options.
// It defines the information exposed for each check step and the interface options implement
// to observe a run.
package model
