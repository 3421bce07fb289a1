// Package cache provides a file-based cache for generated commit messages.
//
// Entries are keyed by a SHA-256 hash of the provider name, model, and the
// full rendered prompt, so any change to the working tree, configuration, or
// language invalidates the key naturally. Each entry stores the generated
// message with a creation timestamp and a TTL in seconds; expired entries are
// skipped on read and removed lazily.
//
// The default cache directory is $XDG_CACHE_HOME/gitmsg (or the
// OS-appropriate equivalent). Cached prompts have already been through
// secret redaction.
package cache
