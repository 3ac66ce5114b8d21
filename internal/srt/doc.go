// Package srt repairs subtitle documents produced by the transliteration
// endpoint.
//
// The upstream generator commonly duplicates cue numbers, emits stray
// numeric artifacts, and drifts timestamp precision. The passes here
// re-parse the loose line structure, collapse those artifacts, renumber
// cues sequentially from 1, and restore authoritative timing from a
// trusted original document.
//
// This is not a general SRT parser. It targets the specific malformations
// of one upstream generator using one-line lookahead, the same way the
// documents are produced: one cue component per line.
package srt
