// Package providers implements the Generator interface for each supported
// LLM provider.
//
// Supported providers: Anthropic (Claude), OpenAI (GPT and compatible
// endpoints), Google (Gemini), and Ollama / LM Studio for local models.
//
// All providers share a common retry helper with exponential back-off for
// rate limits and 5xx responses. Base URLs are injectable so tests can point
// requests at local httptest servers instead of live APIs.
//
// Use [New] to obtain a Generator by provider name and model string.
package providers
