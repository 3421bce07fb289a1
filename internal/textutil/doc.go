// Package textutil holds the byte-level text primitives used when collecting
// repository changes.
//
// [IsBinary] classifies a raw buffer as binary or text so untracked files can
// be skipped instead of pasted into a prompt. [Truncate] cuts a string to a
// byte budget without splitting UTF-8 code points and appends a fixed marker
// line so the reader (human or model) knows content was dropped.
package textutil
