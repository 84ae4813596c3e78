// Package hostwatch polls the process table for the host client and resets
// the scheduler when the host exits, since its tick counter restarts with it.
package hostwatch
