// Package gitrun runs git commands with a wall-clock timeout and an output
// byte cap.
//
// Every failure surfaces as a [*CommandError] carrying the argument list and
// the captured stderr text, so callers can report which git invocation failed
// without re-running it. Output past the cap aborts the command rather than
// buffering unbounded diff text in memory.
package gitrun
