// Package config defines the YAML settings shared by the burner alarm
// binaries and provides helpers to load, validate and save them.
//
// Validate fills defaults, clamps alarm settings into range and rejects
// unknown enum values so the scheduler never starts with a bad policy.
package config
