// Command gitmsg generates git commit messages from the pending changes
// in a repository using an LLM provider.
//
// Usage:
//
//	gitmsg generate [flags]
//	gitmsg config {init|set|show|path}
//	gitmsg models {list|doctor}
//	gitmsg cache {show|clear}
//	gitmsg hook {install|uninstall}
//	gitmsg version
package main
