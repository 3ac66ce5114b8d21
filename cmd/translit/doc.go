// Command translit batch-transliterates romanized Telugu subtitle files
// into Telugu script through the Gemini generateContent endpoint and
// repairs the formatting artifacts the endpoint introduces.
//
// Subcommands: run (transliterate a library), cleanup (repair processed
// output in place), config new / config show (configuration utilities).
package main
