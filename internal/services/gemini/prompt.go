package gemini

import "strings"

// promptTemplate is the fixed instruction wrapped around each file. The
// output-format rules are spelled out aggressively because the model still
// ignores them often enough that every response goes through repair.
const promptTemplate = `Please transliterate the following SRT subtitle content from Tinglish (Telugu written in English script) to proper Telugu script while maintaining the exact same timing and structure.

SRT content to transliterate:
{{content}}

CRITICAL REQUIREMENTS:
1. Keep the exact same timestamps (00:00:00,000 --> 00:00:00,000 format)
2. Keep the same SRT numbering starting from 1 (1, 2, 3, etc.) - DO NOT duplicate any numbers
3. Transliterate ONLY the subtitle text content from Tinglish to proper Telugu script
4. Maintain the exact same line breaks and structure
5. Do NOT add any headers, titles, or extra text
6. Do NOT change any formatting, punctuation, or timing information
7. Start with subtitle number 1 and continue sequentially
8. DO NOT add extra numbers or duplicate subtitle numbers
9. Each subtitle block should have exactly ONE number, ONE timestamp, and the text

Provide ONLY the transliterated SRT content without any additional text, comments, or headers.`

// BuildPrompt embeds a document's full text in the instruction template.
func BuildPrompt(content string) string {
	return strings.Replace(promptTemplate, "{{content}}", content, 1)
}
