// Package core defines the shared value types and error taxonomy used
// across datacore: secrets, query requests and results, write summaries,
// and remote execution handles.
//
// Everything in this package is a plain value object. Results are owned
// by the caller after return; nothing here holds connections, locks, or
// cross-call state.
package core
