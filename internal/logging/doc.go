// Package logging builds the slog loggers used across translit.
//
// Two formats are supported: a compact console format for interactive use
// and JSON for machine consumption. The console handler promotes a
// "component" attribute into a message prefix and flattens slog groups
// into dot-separated keys.
package logging
