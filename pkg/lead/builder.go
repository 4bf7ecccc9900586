package lead

import (
	"context"
	"errors"

	"github.com/synaptica-ai/web2lead/pkg/common/logger"
	"github.com/synaptica-ai/web2lead/pkg/submission"
	"github.com/synaptica-ai/web2lead/pkg/token"
)

// Form identifies the form a payload is built for.
type Form struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Alterer may add, remove or change payload fields after the builtin mapping
// has run. It is the last step before the payload is sent.
type Alterer interface {
	AlterPayload(ctx context.Context, payload Payload, form Form, sub *submission.Record)
}

type AltererFunc func(ctx context.Context, payload Payload, form Form, sub *submission.Record)

func (f AltererFunc) AlterPayload(ctx context.Context, payload Payload, form Form, sub *submission.Record) {
	f(ctx, payload, form, sub)
}

// Build assembles a payload from submitted data. Only mapped fields with a
// non-empty value are copied; composite values are flattened one level as
// parent_child. Overrides are applied last and win over mapped values.
// The organization id always comes from organizationID; neither submitted
// data nor overrides can replace it.
func Build(sub *submission.Record, mapping FieldMapping, overrides Overrides, organizationID string) Payload {
	payload := Payload{OrganizationKey: organizationID}

	for _, field := range sub.Fields() {
		if composite, ok := field.Value.(*submission.Record); ok {
			for _, child := range composite.Fields() {
				assign(payload, mapping, field.Key+"_"+child.Key, child.Value)
			}
			continue
		}
		assign(payload, mapping, field.Key, field.Value)
	}

	for key, value := range overrides {
		if key == "" || key == OrganizationKey || value == "" {
			continue
		}
		payload[key] = value
	}

	return payload
}

func assign(payload Payload, mapping FieldMapping, key string, value interface{}) {
	dest := mapping[key]
	if dest == "" || dest == OrganizationKey {
		return
	}
	s := submission.Stringify(value)
	if s == "" {
		return
	}
	payload[dest] = s
}

type BuildInput struct {
	Form       Form
	Operation  submission.Operation
	Submission *submission.Record
	Settings   Settings
}

// Builder wires Build to token resolution and registered alter hooks.
type Builder struct {
	resolver token.Resolver
	alterers []Alterer
}

func NewBuilder(resolver token.Resolver, alterers ...Alterer) *Builder {
	if resolver == nil {
		resolver = token.Identity
	}
	return &Builder{resolver: resolver, alterers: alterers}
}

// Use registers an alter hook. Hooks run in registration order.
func (b *Builder) Use(a Alterer) {
	b.alterers = append(b.alterers, a)
}

func (b *Builder) Build(ctx context.Context, in BuildInput) Payload {
	general := b.overrides(in, "custom_data", in.Settings.CustomData)
	var specific Overrides
	if in.Operation.IsInsert() {
		specific = b.overrides(in, "insert_data", in.Settings.InsertData)
	}

	payload := Build(
		in.Submission,
		ResolveMapping(in.Settings.Mapping),
		MergeOverrides(general, specific),
		in.Settings.OrganizationID,
	)

	for _, a := range b.alterers {
		a.AlterPayload(ctx, payload, in.Form, in.Submission)
	}
	return payload
}

func (b *Builder) overrides(in BuildInput, block, text string) Overrides {
	parsed, err := ParseOverrides(text)
	if err != nil {
		if errors.Is(err, ErrMalformedCustomData) {
			logger.Log.WithError(err).WithFields(map[string]interface{}{
				"form":    in.Form.Label,
				"handler": in.Settings.Label,
				"block":   block,
			}).Warn("ignoring custom data block")
		}
		return Overrides{}
	}
	return parsed.Resolve(b.resolver, in.Submission)
}
