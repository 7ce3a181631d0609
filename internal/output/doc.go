// Package output provides the logging surface for the bridge.
//
// The Output interface abstracts user-facing output so the serving loop,
// the dish client and the acquirer can log connection events and
// diagnostics without knowing whether they run verbose or silent:
//
//   - StreamingOutput: writes directly to an io.Writer; Info and Debug
//     print only when the output was built verbose
//   - NoOpOutput: discards everything (tests)
//
// Non-verbose operation is silent except for errors, which always print.
package output
