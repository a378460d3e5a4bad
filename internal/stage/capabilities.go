package stage

import (
	"context"

	"smart-send/internal/logger"
	"smart-send/internal/role"
	"smart-send/internal/types"
)

// lookup asks each capability of r for a corridor snapshot. A failing capability is
// logged and skipped.
func (s *Stage) lookup(ctx context.Context, r *role.Config, corridor types.Corridor) []role.ContextSection {
	caps := r.Capabilities()
	sections := make([]role.ContextSection, 0, len(caps))

	for _, c := range caps {
		if ctx.Err() != nil {
			break
		}

		lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
		op := logger.StartOperation(lookupCtx, "capability.Lookup",
			"stage", s.spec.Name,
			"capability", c.Name(),
		)
		info, err := c.Lookup(op.Context(), string(corridor))
		cancel()

		if err != nil {
			op.EndWithError(err, "skipped", true)
			continue
		}
		op.End("chars", len(info))
		sections = append(sections, role.ContextSection{Title: c.Name(), Info: info})
	}

	return sections
}
