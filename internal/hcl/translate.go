package hcl

import (
	"fmt"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/vk/blockflow/internal/config"
	"github.com/vk/blockflow/internal/schema"
)

// translateBlock converts the HCL-specific block schema into the agnostic
// model, evaluating argument expressions and period strings.
func (l *Loader) translateBlock(b *schema.Block) (*config.Block, error) {
	decl := &config.Block{
		Type: b.Type,
		Name: b.Name,
	}

	var err error
	if decl.EstimationPeriod, err = parsePeriod(b.EstimationPeriod); err != nil {
		return nil, fmt.Errorf("block %q estimation_period: %w", b.Name, err)
	}
	if decl.ControlPeriod, err = parsePeriod(b.ControlPeriod); err != nil {
		return nil, fmt.Errorf("block %q control_period: %w", b.Name, err)
	}

	if b.Arguments != nil {
		attrs, diags := b.Arguments.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("block %q arguments: %w", b.Name, diags)
		}
		decl.Arguments = make(map[string]cty.Value, len(attrs))
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("block %q argument %q: %w", b.Name, name, diags)
			}
			decl.Arguments[name] = val
		}
	}
	return decl, nil
}

// translateConnection converts the HCL-specific connect schema into the
// agnostic model.
func (l *Loader) translateConnection(c *schema.Connection) *config.Connection {
	return &config.Connection{From: c.From, To: c.To, Latched: c.Latched}
}

// parsePeriod parses a duration string; empty means every cycle.
func parsePeriod(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("period must not be negative: %s", s)
	}
	return d, nil
}
