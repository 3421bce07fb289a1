// Package generate orchestrates one commit-message generation run: collect
// the working-tree changes, redact secrets, render the prompt, consult the
// message cache, and call the configured LLM provider.
//
// The pipeline is strictly sequential; a run either returns a complete
// [Result] or fails with the first error encountered. [ErrNoChanges] is
// returned for a clean tree so the CLI can say so instead of prompting a
// model about nothing.
package generate
