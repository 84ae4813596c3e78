// Package server runs the burner alarm gRPC server: it builds the scheduler
// from the settings file, wires the sinks behind the delivery dispatcher and
// serves the tracking API until the context is canceled.
package server
