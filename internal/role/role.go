package role

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRole is returned when a role is constructed without identity or directives.
var ErrInvalidRole = errors.New("invalid role configuration")

// OutputStyle hints how the oracle should format its answer.
type OutputStyle int

const (
	StylePlain OutputStyle = iota
	StyleMarkdown
)

func (s OutputStyle) String() string {
	if s == StyleMarkdown {
		return "structured-markdown"
	}
	return "plain"
}

// Capability is an external tool a role may consult before the oracle is asked.
type Capability interface {
	Name() string
	Description() string
	// Lookup returns a snapshot of the capability's data for a corridor.
	// An empty string means the capability has nothing to add.
	Lookup(ctx context.Context, corridor string) (string, error)
}

// ContextSection is capability output shown to the oracle alongside the persona.
type ContextSection struct {
	Title string
	Info  string
}

// Config is an immutable analysis persona. The zero value is not usable; build with New.
type Config struct {
	identity     string
	directives   []string
	style        OutputStyle
	capabilities []Capability
	context      []ContextSection
}

// New validates and builds a role. Slices are copied so later changes by the caller
// do not leak into a shared role.
func New(identity string, directives []string, style OutputStyle, caps ...Capability) (*Config, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return nil, fmt.Errorf("%w: identity is empty", ErrInvalidRole)
	}

	hasDirective := false
	for _, d := range directives {
		if strings.TrimSpace(d) != "" {
			hasDirective = true
			break
		}
	}
	if !hasDirective {
		return nil, fmt.Errorf("%w: role %q has no directives", ErrInvalidRole, identity)
	}

	for i, c := range caps {
		if c == nil {
			return nil, fmt.Errorf("%w: role %q capability %d is nil", ErrInvalidRole, identity, i)
		}
	}

	return &Config{
		identity:     identity,
		directives:   append([]string(nil), directives...),
		style:        style,
		capabilities: append([]Capability(nil), caps...),
	}, nil
}

func (c *Config) Identity() string {
	return c.identity
}

func (c *Config) Directives() []string {
	return append([]string(nil), c.directives...)
}

func (c *Config) Style() OutputStyle {
	return c.style
}

func (c *Config) Capabilities() []Capability {
	return append([]Capability(nil), c.capabilities...)
}

func (c *Config) HasCapabilities() bool {
	return len(c.capabilities) > 0
}

// WithContext returns a copy of the role that also carries the given sections.
// Sections with empty Info are dropped. The receiver is left untouched.
func (c *Config) WithContext(sections ...ContextSection) *Config {
	out := *c
	out.context = append([]ContextSection(nil), c.context...)
	for _, s := range sections {
		if strings.TrimSpace(s.Info) != "" {
			out.context = append(out.context, s)
		}
	}
	return &out
}

// SystemPrompt renders the persona as a sectioned system prompt.
func (c *Config) SystemPrompt() string {
	parts := []string{"# IDENTITY and PURPOSE", "You are the " + c.identity + ".", ""}

	parts = append(parts, "# INSTRUCTIONS")
	for _, d := range c.directives {
		if d == "" {
			// blank directives separate groups of rules
			parts = append(parts, "")
			continue
		}
		if strings.HasPrefix(d, "- ") {
			parts = append(parts, d)
			continue
		}
		parts = append(parts, "- "+d)
	}
	parts = append(parts, "")

	parts = append(parts, "# OUTPUT FORMAT")
	if c.style == StyleMarkdown {
		parts = append(parts, "- Format the answer as concise Markdown.")
	} else {
		parts = append(parts, "- Answer in plain text without Markdown.")
	}

	if len(c.capabilities) > 0 {
		parts = append(parts, "", "# AVAILABLE TOOLS")
		for _, tool := range c.capabilities {
			parts = append(parts, fmt.Sprintf("- %s: %s", tool.Name(), tool.Description()))
		}
	}

	if len(c.context) > 0 {
		parts = append(parts, "", "# EXTRA INFORMATION AND CONTEXT")
		for _, s := range c.context {
			parts = append(parts, "## "+s.Title, strings.TrimSpace(s.Info), "")
		}
	}

	return strings.TrimSpace(strings.Join(parts, "\n"))
}
