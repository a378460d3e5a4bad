package policy

import (
	"fmt"
	"strings"

	"smart-send/internal/types"
)

// Mode selects how the verdict reaches the synthesis stage.
type Mode string

const (
	// ModeAdvisory hands the rules to the oracle and trusts it to apply them.
	ModeAdvisory Mode = "ADVISORY"
	// ModeEnforced computes the verdict in code and injects it into the synthesis prompt.
	ModeEnforced Mode = "ENFORCED"
)

// ParseMode maps a config value to a Mode. Unknown values fall back to enforced.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeAdvisory)) {
		return ModeAdvisory
	}
	return ModeEnforced
}

// Decide maps the two stage labels to a verdict. Favorable and Positive together is the
// only path to Send Now; any Unfavorable, Negative, Uncertain or absent label means waiting.
func Decide(fx, sentiment types.Label) types.Verdict {
	if fx == types.Favorable && sentiment == types.Positive {
		return types.SendNow
	}
	return types.ConsiderWaiting
}

// Rules returns the decision table as directive lines for the synthesis persona.
func Rules() []string {
	return []string{
		"Decision rules:",
		"- If FX is Favorable AND sentiment is Positive → Send Now",
		"- If FX is Unfavorable OR sentiment is Negative → Consider Waiting",
		"- If anything is Uncertain or unclear → Be cautious and suggest waiting (Consider Waiting)",
		"- Send Now is allowed only when FX is Favorable and sentiment is Positive.",
	}
}

// Directive is the hardening line injected into the synthesis prompt in enforced mode.
func Directive(v types.Verdict) string {
	return fmt.Sprintf("The required recommendation is: %s. Write a warm explanation for the customer and end with this exact phrase: %s.", v, v)
}

// DirectiveFor returns the directive for a mode, or "" when the oracle is trusted.
func DirectiveFor(mode Mode, v types.Verdict) string {
	if mode == ModeAdvisory {
		return ""
	}
	return Directive(v)
}

// Mentions reports whether text names the verdict, case-insensitively.
func Mentions(text string, v types.Verdict) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(string(v)))
}
