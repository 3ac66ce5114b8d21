// Package ledger records per-file outcomes of transliteration and cleanup
// runs in a SQLite database kept beside the processed output.
//
// The ledger feeds the end-of-run summary and lets a re-run skip files a
// previous run already completed. It is an accounting aid, not a
// correctness requirement: callers treat a missing or failing ledger as a
// soft failure and keep processing.
package ledger
