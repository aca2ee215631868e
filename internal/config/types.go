// Package config provides the shared option defaults and check names of the
// data model validator. It is decoupled from CLI concerns so the walker and
// the checks can agree on names without importing the CLI layer.
package config

import "slices"

// IsKnownCheck reports whether name is a registered warning check name.
func IsKnownCheck(name string) bool {
	return slices.Contains(KnownChecks(), name)
}
