// Package workflow drives the two batch passes over a subtitle library.
//
// The Translator walks collection directories under a base folder, sends
// each romanized document to the transliteration endpoint, and writes the
// sanitized response under processed/. The Repairer walks processed output
// and fixes the formatting artifacts the endpoint is known to introduce:
// duplicated cue numbers, broken numbering sequences, and drifted
// timestamps.
//
// Both passes are deliberately single threaded. The endpoint is rate
// limited and the per-file work is dominated by the remote call, so
// sequencing with small pauses is the safe shape. Per-file failures are
// soft: logged, counted in the Summary, and recorded in the ledger when one
// is available.
package workflow
