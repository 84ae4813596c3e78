// Package common holds helpers shared by several services.
//
// It provides a lightweight gRPC client wrapper with timeouts and a helper
// that names the current user and host for reset reasons.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
