// Package logger wraps zap with:
//   - a global sugared logger writing console lines to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing and runtime level changes,
//   - ctx-first convenience functions (Infof, WarnKV, ...).
//
// Services take a context and log through the logger stored in it, so a
// component name and request fields follow the call chain.
package logger
