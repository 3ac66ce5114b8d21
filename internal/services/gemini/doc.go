// Package gemini provides the generative-language client used to
// transliterate subtitle text.
//
// # Request Shape
//
// Each file's full content is embedded in a fixed instruction template and
// posted to the generateContent endpoint. The response is expected to carry
// the transliterated document in the first candidate's first text part;
// anything else is a shape error.
//
// # Retry Behaviour
//
// Attempts are bounded (3 by default). Rate-limit responses wait a
// randomized 10-20s, server errors and network timeouts a randomized
// 5-10s; other client errors fail immediately. A Retry-After header is
// honored when present. Context cancellation aborts retries.
//
// The model is explicitly told to number cues sequentially and preserve
// timing, but that instruction is unreliable in practice — the srt package
// exists to repair what comes back.
package gemini
