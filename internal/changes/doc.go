// Package changes collects the current state of a git working tree into a
// bounded, deterministic [Snapshot].
//
// The collector merges staged, unstaged, and untracked paths into one
// deduplicated list (staged first, then unstaged, then untracked), applies a
// file-count budget, renders a labeled per-file block for each selected path,
// and finally applies the byte budget. Untracked files are read from disk and
// classified binary or text; unreadable, binary, non-regular, and empty files
// become inline placeholder text rather than failing the collection. Git
// command failures, by contrast, abort the whole collection.
package changes
