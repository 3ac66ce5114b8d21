// Package library models the on-disk layout of a subtitle library.
//
// Collections are top-level directories under a base folder, one per
// series, each holding its subtitle files directly. Transliterated output
// accumulates under a shared processed/ directory mirroring the collection
// names, with a suffix appended to each filename before the extension.
// That naming convention is also what pairs a processed document back to
// its trusted original for timestamp restoration.
package library
