package redact

import (
	"context"
	"regexp"

	"github.com/synaptica-ai/web2lead/pkg/common/logger"
	"github.com/synaptica-ai/web2lead/pkg/lead"
	"github.com/synaptica-ai/web2lead/pkg/submission"
)

type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

// Redactor masks sensitive patterns in outgoing payload values. It runs as
// a lead alter hook.
type Redactor struct {
	fields map[string]struct{}
	rules  []compiledRule
}

func NewRedactor(cfg RulesConfig) (*Redactor, error) {
	var compiled []compiledRule
	for _, rule := range cfg.Rules {
		if !rule.Enabled {
			continue
		}
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledRule{rule: rule, re: re})
	}

	fields := make(map[string]struct{}, len(cfg.Fields))
	for _, f := range cfg.Fields {
		fields[f] = struct{}{}
	}
	return &Redactor{fields: fields, rules: compiled}, nil
}

func (r *Redactor) applies(key string) bool {
	if key == lead.OrganizationKey {
		return false
	}
	if len(r.fields) == 0 {
		return true
	}
	_, ok := r.fields[key]
	return ok
}

// Mask returns text with every rule applied and the names of rules that hit.
func (r *Redactor) Mask(text string) (string, []string) {
	var hits []string
	for _, cr := range r.rules {
		if !cr.re.MatchString(text) {
			continue
		}
		text = cr.re.ReplaceAllString(text, cr.rule.Mask)
		hits = append(hits, cr.rule.Name)
	}
	return text, hits
}

func (r *Redactor) AlterPayload(_ context.Context, payload lead.Payload, form lead.Form, _ *submission.Record) {
	if r == nil {
		return
	}
	for key, value := range payload {
		if !r.applies(key) {
			continue
		}
		masked, hits := r.Mask(value)
		if len(hits) == 0 {
			continue
		}
		payload[key] = masked
		logger.Log.WithFields(map[string]interface{}{
			"form":  form.Label,
			"field": key,
			"rules": hits,
		}).Info("masked sensitive value in lead payload")
	}
}
