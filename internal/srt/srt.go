package srt

import (
	"regexp"
	"strconv"
	"strings"
)

// timePattern matches an SRT time interval: two HH:MM:SS,mmm stamps joined
// by an arrow with optional whitespace around it. The digit layout is
// strict; only the arrow spacing is flexible.
var timePattern = regexp.MustCompile(`\d{2}:\d{2}:\d{2},\d{3}\s*-->\s*\d{2}:\d{2}:\d{2},\d{3}`)

// FormatOptions controls how repaired documents are joined back together.
type FormatOptions struct {
	// BlankLineBetweenCues inserts the conventional blank separator before
	// each cue block. The upstream consumers read the line-by-line form, so
	// this defaults to off.
	BlankLineBetweenCues bool
}

func isNumeric(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	_, err := strconv.Atoi(value)
	return err == nil
}

// isCueNumber reports whether line is a confirmed cue-number line: numeric
// only, with the following line carrying a time interval. Both repair
// passes share this predicate so they cannot drift apart.
func isCueNumber(line, next string) bool {
	return isNumeric(line) && timePattern.MatchString(strings.TrimSpace(next))
}

// Clean removes duplicated and stray numeric lines from raw subtitle text.
//
// Runs of consecutive numeric lines collapse to the last one, which is then
// validated like any other candidate: a numeric line survives only when the
// next line is a time interval. Non-numeric lines pass through unchanged,
// except leading blank lines. A numeric line at the very end of the input
// has nothing to validate it and is dropped.
func Clean(content string) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	cleaned := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" && len(cleaned) == 0 {
			continue
		}
		if isNumeric(line) {
			if i+1 < len(lines) && isNumeric(lines[i+1]) {
				// Duplicate: the following numeric line is the one that
				// gets validated next.
				continue
			}
			if i+1 < len(lines) && isCueNumber(line, lines[i+1]) {
				cleaned = append(cleaned, line)
			}
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, "\n")
}

// Renumber rewrites confirmed cue-number lines with the canonical sequence
// 1..N and drops numeric lines that fail the lookahead test. Everything
// else passes through verbatim.
func Renumber(content string, opts FormatOptions) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	fixed := make([]string, 0, len(lines))
	number := 1
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if line == "" && len(fixed) == 0 {
			continue
		}
		if isNumeric(line) {
			if i+1 < len(lines) && isCueNumber(line, lines[i+1]) {
				if opts.BlankLineBetweenCues && len(fixed) > 0 && fixed[len(fixed)-1] != "" {
					fixed = append(fixed, "")
				}
				fixed = append(fixed, strconv.Itoa(number))
				number++
			}
			continue
		}
		fixed = append(fixed, line)
	}
	return strings.Join(fixed, "\n")
}

// ExtractTimestamps returns every time interval in the document, in order.
func ExtractTimestamps(content string) []string {
	return timePattern.FindAllString(content, -1)
}

// RestoreStatus identifies what RestoreTimestamps did with a document.
type RestoreStatus string

const (
	// StatusRestored means every interval was replaced positionally.
	StatusRestored RestoreStatus = "restored"
	// StatusCountMismatch means the interval counts differ and the document
	// was returned unchanged.
	StatusCountMismatch RestoreStatus = "count_mismatch"
	// StatusNoSourceTimestamps means the original document carried no
	// intervals to restore from.
	StatusNoSourceTimestamps RestoreStatus = "no_source_timestamps"
)

// RestoreOutcome reports the effect of a timestamp restoration pass.
type RestoreOutcome struct {
	Status         RestoreStatus
	Replaced       int
	SourceCount    int
	ProcessedCount int
}

// Restored reports whether the returned document carries source timing.
func (o RestoreOutcome) Restored() bool { return o.Status == StatusRestored }

// RestoreTimestamps replaces each time interval in processed with the
// interval at the same position in original, leaving all surrounding text
// untouched. The transliteration endpoint is not trusted to preserve
// timestamp precision, so the original document's timing is authoritative.
//
// Restoration only happens when both documents carry the same number of
// intervals; any mismatch returns processed unchanged with an outcome
// explaining why.
func RestoreTimestamps(processed, original string) (string, RestoreOutcome) {
	source := ExtractTimestamps(original)
	outcome := RestoreOutcome{SourceCount: len(source)}
	if len(source) == 0 {
		outcome.Status = StatusNoSourceTimestamps
		outcome.ProcessedCount = len(ExtractTimestamps(processed))
		return processed, outcome
	}

	locations := timePattern.FindAllStringIndex(processed, -1)
	outcome.ProcessedCount = len(locations)
	if len(locations) != len(source) {
		outcome.Status = StatusCountMismatch
		return processed, outcome
	}

	var b strings.Builder
	b.Grow(len(processed))
	last := 0
	for i, loc := range locations {
		b.WriteString(processed[last:loc[0]])
		b.WriteString(source[i])
		last = loc[1]
	}
	b.WriteString(processed[last:])
	outcome.Status = StatusRestored
	outcome.Replaced = len(locations)
	return b.String(), outcome
}

// SanitizeResponse strips separator lines and echoed headers from a raw
// endpoint response and guarantees the document opens with cue number 1.
// This is a best-effort guard against chatty responses on the single-file
// path; the full repair passes still run afterwards.
func SanitizeResponse(content, header string) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	cleaned := make([]string, 0, len(lines))
	numberSeen := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case isNumeric(line):
			if !numberSeen && line != "1" {
				cleaned = append(cleaned, "1")
			}
			numberSeen = true
			cleaned = append(cleaned, line)
		case strings.Contains(line, ":") && strings.Contains(line, "-->"):
			cleaned = append(cleaned, line)
		case strings.HasPrefix(line, "==="):
			// Separator block from a response that bundled several files.
		case header != "" && strings.HasPrefix(line, header):
			// Echoed collection header.
		default:
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
