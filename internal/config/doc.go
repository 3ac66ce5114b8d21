// Package config loads, validates, and normalizes translit configuration.
//
// Configuration is a single TOML file resolved in order: the --config flag,
// a translit.toml in the working directory, then
// ~/.config/translit/config.toml. Missing files are not an error; defaults
// cover every field, and the Gemini API key may arrive via the
// GEMINI_API_KEY environment variable or a local .env file.
package config
