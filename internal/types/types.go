package types

import "strings"

// Corridor names a source/destination pair for a transfer, e.g. "US to INDIA".
// It is opaque natural-language context and is never parsed by the pipeline.
type Corridor string

// Valid reports whether the corridor carries any non-blank text.
func (c Corridor) Valid() bool {
	return strings.TrimSpace(string(c)) != ""
}

func (c Corridor) String() string {
	return string(c)
}

// Label is a classification extracted from the leading token of a stage's text.
type Label string

const (
	// NoLabel means the stage text did not start with one of the stage's labels.
	NoLabel Label = ""

	Favorable   Label = "Favorable"
	Unfavorable Label = "Unfavorable"
	Positive    Label = "Positive"
	Negative    Label = "Negative"
	Uncertain   Label = "Uncertain"
)

// Present reports whether a label was extracted.
func (l Label) Present() bool {
	return l != NoLabel
}

func (l Label) String() string {
	if l == NoLabel {
		return "absent"
	}
	return string(l)
}

// Verdict is the final recommendation class.
type Verdict string

const (
	SendNow         Verdict = "Send Now"
	ConsiderWaiting Verdict = "Consider Waiting"
)

// CompletionRequest is what a provider sends to the model in one call.
type CompletionRequest struct {
	System   string
	Prompt   string
	Markdown bool
}

// StageResult is the immutable output of one stage invocation.
type StageResult struct {
	Stage   string `json:"stage"`
	RawText string `json:"raw_text"`
	Label   Label  `json:"label,omitempty"`
}

// Recommendation is the terminal artifact returned to the caller.
type Recommendation struct {
	Corridor  Corridor    `json:"corridor"`
	Text      string      `json:"text"`
	Verdict   Verdict     `json:"verdict"`
	FX        StageResult `json:"fx"`
	Sentiment StageResult `json:"sentiment"`
}
