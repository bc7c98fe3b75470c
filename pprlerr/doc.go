// Package pprlerr defines the error kinds surfaced by the linkage core.
// Every failure is fatal for a run; callers classify errors with errors.Is
// against ErrConfig, ErrInvalidArgument or ErrNotFound.
package pprlerr
