// Package voice post-processes completion text for the speech channel:
// markup stripped, symbols spelled out, length capped by word count.
package voice

import "strings"

// MaxWords is the speech-channel word budget for analysis responses.
const MaxWords = 200

// ContinuationSuffix is appended whenever a response is cut at MaxWords.
const ContinuationSuffix = "... For more detailed insights, please ask for specific aspects of the analysis."

var speechReplacer = strings.NewReplacer(
	"**", "",
	"*", "",
	"&", "and",
	"%", "percent",
	"#", "number",
	"Com base na análise", "Based on my analysis",
	"Recomendo", "I recommend",
	"Sugiro", "I suggest",
)

// Clean strips markdown emphasis and substitutes symbols and a few fixed
// phrases for speech-friendly equivalents.
func Clean(text string) string {
	return speechReplacer.Replace(text)
}

// TruncateWords cuts text to at most max words and appends suffix when it had
// to cut. Text at or under the budget is returned unmodified.
func TruncateWords(text string, max int, suffix string) string {
	if max <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) <= max {
		return text
	}
	return strings.Join(words[:max], " ") + suffix
}

// ForSpeech applies Clean and the default MaxWords truncation.
func ForSpeech(text string) string {
	return TruncateWords(Clean(text), MaxWords, ContinuationSuffix)
}
