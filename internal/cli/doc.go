// Package cli wires the cobra command tree for the gitmsg binary.
//
// Commands set the package-level exitCode instead of returning errors so
// that cobra usage errors and runtime failures map to distinct process
// exit codes: 0 success, 2 usage error, 3 authentication failure,
// 4 runtime error.
package cli
