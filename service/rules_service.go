package service

import (
	"go.uber.org/zap"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/config"
	"github.com/ludo-technologies/fsdscan/internal/rules"
)

// RuleInfo is one row of the rule listing
type RuleInfo struct {
	ID       string          `json:"id" yaml:"id"`
	Category domain.Category `json:"category" yaml:"category"`
	Priority domain.Priority `json:"priority" yaml:"priority"`

	// Default is the priority before configuration overrides
	Default domain.Priority `json:"default_priority" yaml:"default_priority"`
	Enabled bool            `json:"enabled" yaml:"enabled"`
	Scope   string          `json:"scope" yaml:"scope"`
	Title   string          `json:"title" yaml:"title"`
}

// RuleListing is the rule table with its version
type RuleListing struct {
	Version string     `json:"version" yaml:"version"`
	Rules   []RuleInfo `json:"rules" yaml:"rules"`
}

// ListRules returns the rule table in evaluation order with cfg applied
func ListRules(cfg *config.Config, logger *zap.Logger) (*RuleListing, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	engine, err := NewEngine(cfg, logger)
	if err != nil {
		return nil, err
	}

	statuses := engine.Rules()
	out := &RuleListing{Version: rules.TableVersion, Rules: make([]RuleInfo, 0, len(statuses))}
	for _, st := range statuses {
		out.Rules = append(out.Rules, RuleInfo{
			ID:       st.Rule.ID,
			Category: st.Rule.Category,
			Priority: st.Priority,
			Default:  st.Rule.Priority,
			Enabled:  st.Enabled,
			Scope:    string(st.Rule.Scope),
			Title:    st.Rule.Title,
		})
	}
	return out, nil
}
