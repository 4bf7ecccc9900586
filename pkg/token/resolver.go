package token

import (
	"regexp"
	"strings"

	"github.com/synaptica-ai/web2lead/pkg/submission"
)

// Resolver replaces placeholders in a template using submission data.
type Resolver interface {
	Resolve(template string, sub *submission.Record) string
}

type ResolverFunc func(template string, sub *submission.Record) string

func (f ResolverFunc) Resolve(template string, sub *submission.Record) string {
	return f(template, sub)
}

// Identity leaves templates untouched.
var Identity = ResolverFunc(func(template string, _ *submission.Record) string {
	return template
})

// placeholderPattern matches both syntaxes in one alternation so templates are
// expanded in a single pass. Substituted values are never rescanned.
var placeholderPattern = regexp.MustCompile(
	`\[webform_submission:values:([A-Za-z0-9_\-]+)(?::([A-Za-z0-9_\-]+))?\]` +
		`|\{\{\s*([A-Za-z0-9_\-]+)(?:\.([A-Za-z0-9_\-]+))?\s*\}\}`,
)

// SubmissionResolver understands the two placeholder syntaxes forms are
// configured with:
//
//	[webform_submission:values:email]
//	[webform_submission:values:name:first]
//	{{email}}
//	{{name.first}}
//
// Placeholders naming a missing field are left as written.
type SubmissionResolver struct{}

func NewSubmissionResolver() SubmissionResolver {
	return SubmissionResolver{}
}

func (SubmissionResolver) Resolve(template string, sub *submission.Record) string {
	if !strings.ContainsAny(template, "[{") {
		return template
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		groups := placeholderPattern.FindStringSubmatch(match)
		key, child := groups[1], groups[2]
		if key == "" {
			key, child = groups[3], groups[4]
		}
		value, ok := lookup(sub, key, child)
		if !ok {
			return match
		}
		return value
	})
}

func lookup(sub *submission.Record, key, child string) (string, bool) {
	v, ok := sub.Get(key)
	if !ok {
		return "", false
	}
	if child == "" {
		return submission.Stringify(v), true
	}
	nested, ok := v.(*submission.Record)
	if !ok {
		return "", false
	}
	cv, ok := nested.Get(child)
	if !ok {
		return "", false
	}
	return submission.Stringify(cv), true
}
