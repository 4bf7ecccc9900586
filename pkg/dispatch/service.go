package dispatch

import (
	"context"
	"errors"
	"strings"

	"github.com/synaptica-ai/web2lead/pkg/common/logger"
	"github.com/synaptica-ai/web2lead/pkg/common/models"
	"github.com/synaptica-ai/web2lead/pkg/forms"
	"github.com/synaptica-ai/web2lead/pkg/lead"
	"github.com/synaptica-ai/web2lead/pkg/observability/metrics"
	"github.com/synaptica-ai/web2lead/pkg/submission"
)

const eventSource = "web2lead"

// Forms resolves and stores form configuration.
type Forms interface {
	Get(ctx context.Context, formID string) (*forms.Form, error)
	Save(ctx context.Context, form *forms.Form) error
	IsStatic(formID string) bool
}

// Publisher receives outcome events. Optional.
type Publisher interface {
	PublishEvent(ctx context.Context, eventType, source, key string, data map[string]interface{}) error
}

// Result collects the outcome of every handler attached to a form.
type Result struct {
	EventID   string         `json:"event_id,omitempty"`
	FormID    string         `json:"form_id"`
	Operation string         `json:"operation"`
	Reason    string         `json:"reason,omitempty"`
	Outcomes  []lead.Outcome `json:"outcomes"`
}

// Preview is a payload built without being sent.
type Preview struct {
	Handler  string       `json:"handler"`
	Endpoint string       `json:"endpoint"`
	Payload  lead.Payload `json:"payload"`
}

type Service struct {
	forms      Forms
	builder    *lead.Builder
	sender     lead.Sender
	publisher  Publisher
	forceDebug bool
}

func NewService(f Forms, builder *lead.Builder, sender lead.Sender, publisher Publisher, forceDebug bool) *Service {
	return &Service{
		forms:      f,
		builder:    builder,
		sender:     sender,
		publisher:  publisher,
		forceDebug: forceDebug,
	}
}

// Process runs every lead handler of the event's form. It never fails: the
// host pipeline must be able to finish saving the submission regardless.
func (s *Service) Process(ctx context.Context, event models.SubmissionEvent) Result {
	metrics.ObserveSubmission()

	op := submission.ParseOperation(event.Operation)
	result := Result{EventID: event.ID, FormID: event.FormID, Operation: string(op), Outcomes: []lead.Outcome{}}

	form, err := s.forms.Get(ctx, event.FormID)
	if err != nil {
		result.Reason = lead.ReasonUnknownForm
		if errors.Is(err, forms.ErrNotFound) {
			metrics.ObserveUnknownForm()
			logger.Log.WithField("form_id", event.FormID).Debug("no lead handlers for form")
		} else {
			logger.Log.WithError(err).WithField("form_id", event.FormID).Error("failed to load form configuration")
		}
		return result
	}

	sub := event.Data
	if sub == nil {
		sub = submission.NewRecord()
	}

	for _, settings := range form.Handlers {
		out := lead.NewHandler(form.Ref(), settings, s.builder, s.sender).
			WithDebug(s.forceDebug).
			Handle(ctx, op, sub)

		metrics.ObserveOutcome(out.Status)
		s.publish(ctx, event, out)
		result.Outcomes = append(result.Outcomes, out)
	}
	return result
}

// HandleEvent adapts Process to the Kafka consumer. Invalid envelopes are
// reported to the consumer, which logs and drops them.
func (s *Service) HandleEvent(ctx context.Context, event models.SubmissionEvent) error {
	event.FormID = strings.TrimSpace(event.FormID)
	if err := Validate(event); err != nil {
		return err
	}
	result := s.Process(ctx, event)
	logger.Log.WithFields(map[string]interface{}{
		"event_id":  result.EventID,
		"form_id":   result.FormID,
		"operation": result.Operation,
		"handlers":  len(result.Outcomes),
	}).Debug("submission event processed")
	return nil
}

// Preview builds the payload every handler would send for an insert,
// without contacting any endpoint.
func (s *Service) Preview(ctx context.Context, formID string, sub *submission.Record) ([]Preview, error) {
	form, err := s.forms.Get(ctx, formID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		sub = submission.NewRecord()
	}

	previews := make([]Preview, 0, len(form.Handlers))
	for _, settings := range form.Handlers {
		payload := s.builder.Build(ctx, lead.BuildInput{
			Form:       form.Ref(),
			Operation:  submission.OperationInsert,
			Submission: sub,
			Settings:   settings,
		})
		previews = append(previews, Preview{
			Handler:  settings.Name(),
			Endpoint: settings.Endpoint(),
			Payload:  payload,
		})
	}
	metrics.ObservePreview()
	return previews, nil
}

func (s *Service) publish(ctx context.Context, event models.SubmissionEvent, out lead.Outcome) {
	if s.publisher == nil {
		return
	}
	data := map[string]interface{}{
		"event_id":  event.ID,
		"form_id":   event.FormID,
		"operation": event.Operation,
		"handler":   out.Handler,
		"endpoint":  out.Endpoint,
		"status":    out.Status,
		"fields":    out.Payload.Keys(),
	}
	if out.Reason != "" {
		data["reason"] = out.Reason
	}
	if out.Error != "" {
		data["error"] = out.Error
	}
	if out.Response != nil {
		data["status_code"] = out.Response.StatusCode
	}

	if err := s.publisher.PublishEvent(ctx, "lead."+out.Status, eventSource, event.ID, data); err != nil {
		logger.Log.WithError(err).WithField("event_id", event.ID).Warn("failed to publish lead outcome")
	}
}
