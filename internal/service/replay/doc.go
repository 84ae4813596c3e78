// Package replay runs a scripted sequence of burner signals against the
// scheduler on a manual clock and reports every alert it fires. It is used
// to check alarm settings offline and to pin scheduler behavior in tests.
package replay
