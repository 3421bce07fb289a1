// Package redact removes secrets from collected diff content before it is
// sent to any LLM provider.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS credentials, bearer tokens, and provider-specific
// tokens (Anthropic, OpenAI, GitHub, Slack). A commit-message generator sees
// untracked file content verbatim, which is exactly where .env-style secrets
// live, so redaction is on by default.
package redact
