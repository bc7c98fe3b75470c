// Package config loads the run configuration of a linkage run from YAML.
//
// Values are layered: Default supplies every option, a YAML file overrides
// what it names, and command-line flags override the file. Validate reports
// every invalid option at once; each problem wraps pprlerr.ErrConfig.
package config
