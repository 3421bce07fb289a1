// Package prompt renders a collected change snapshot into the two-part
// (system + user) prompt sent to an LLM provider.
//
// [Build] is deterministic and does no I/O. The user prompt is a fixed
// sequence of sections joined by blank lines: task statement, rule template,
// optional additional rules, language-specific output format constraints,
// git status (omitted when blank), the diff (with a literal placeholder when
// empty), and provenance notes disclosing file limiting and truncation.
// Instruction text is rendered in English or Chinese per the configured UI
// language.
package prompt
