// Package output renders generation results for the terminal and for
// machine consumers.
//
// Three formats are supported: "text" prints the message followed by a
// summary footer, "json" emits the full result structure, and "raw"
// prints only the message so the output can feed a commit hook or
// git commit -F - directly.
package output
