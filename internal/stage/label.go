package stage

import (
	"strings"

	"smart-send/internal/types"
)

var (
	FXLabels        = []types.Label{types.Favorable, types.Unfavorable, types.Uncertain}
	SentimentLabels = []types.Label{types.Positive, types.Negative, types.Uncertain}
)

// ExtractLabel compares the first whitespace-delimited token of text, case-insensitively,
// against the allowed labels. Anything else, including punctuation glued to the word,
// yields types.NoLabel. It never guesses.
func ExtractLabel(text string, allowed []types.Label) types.Label {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return types.NoLabel
	}
	first := fields[0]
	for _, l := range allowed {
		if l != types.NoLabel && strings.EqualFold(first, string(l)) {
			return l
		}
	}
	return types.NoLabel
}
