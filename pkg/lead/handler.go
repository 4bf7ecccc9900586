package lead

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/synaptica-ai/web2lead/pkg/common/logger"
	"github.com/synaptica-ai/web2lead/pkg/gateway/httpclient"
	"github.com/synaptica-ai/web2lead/pkg/submission"
)

const (
	StatusPosted  = "posted"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

const (
	ReasonNotInsert   = "operation is not insert"
	ReasonNoEndpoint  = "endpoint url not configured"
	ReasonUnknownForm = "form not configured"
)

// Outcome describes what a handler did with one submission event.
type Outcome struct {
	Handler  string    `json:"handler"`
	Status   string    `json:"status"`
	Reason   string    `json:"reason,omitempty"`
	Endpoint string    `json:"endpoint,omitempty"`
	Payload  Payload   `json:"payload,omitempty"`
	Response *Response `json:"response,omitempty"`
	Error    string    `json:"error,omitempty"`
	// Debug holds an HTML escaped echo of the exchange when debugging is on.
	Debug string `json:"debug,omitempty"`

	Err *PostError `json:"-"`
}

// Handler forwards created submissions of one form to one endpoint.
type Handler struct {
	form       Form
	settings   Settings
	builder    *Builder
	sender     Sender
	forceDebug bool
}

func NewHandler(form Form, settings Settings, builder *Builder, sender Sender) *Handler {
	return &Handler{form: form, settings: settings, builder: builder, sender: sender}
}

// WithDebug turns on the diagnostic echo regardless of the handler settings.
func (h *Handler) WithDebug(on bool) *Handler {
	h.forceDebug = on
	return h
}

func (h *Handler) debug() bool {
	return h.settings.Debug || h.forceDebug
}

// Handle never fails: errors are logged and reported in the outcome so the
// host can finish saving the submission.
func (h *Handler) Handle(ctx context.Context, op submission.Operation, sub *submission.Record) Outcome {
	out := Outcome{Handler: h.settings.Name(), Endpoint: h.settings.Endpoint()}

	if !op.IsInsert() {
		out.Status = StatusSkipped
		out.Reason = ReasonNotInsert
		return out
	}
	if out.Endpoint == "" {
		out.Status = StatusSkipped
		out.Reason = ReasonNoEndpoint
		return out
	}

	out.Payload = h.builder.Build(ctx, BuildInput{
		Form:       h.form,
		Operation:  op,
		Submission: sub,
		Settings:   h.settings,
	})

	resp, err := h.sender.Send(ctx, out.Endpoint, out.Payload)
	out.Response = resp
	if err != nil {
		var postErr *PostError
		if !errors.As(err, &postErr) {
			postErr = &PostError{Message: err.Error(), Response: resp, Err: err}
		}
		out.Status = StatusFailed
		out.Err = postErr
		out.Error = postErr.Message

		logger.Log.WithFields(map[string]interface{}{
			"form":      h.form.Label,
			"handler":   out.Handler,
			"operation": string(op),
			"endpoint":  out.Endpoint,
			"error":     postErr.Message,
			"timeout":   httpclient.IsTimeout(postErr.Err),
		}).Error("web-to-lead post failed")
	} else {
		out.Status = StatusPosted
		entry := logger.Log.WithFields(map[string]interface{}{
			"form":     h.form.Label,
			"handler":  out.Handler,
			"endpoint": out.Endpoint,
		})
		if resp != nil {
			entry = entry.WithField("status", resp.StatusCode)
		}
		entry.Debug("web-to-lead post sent")
	}

	if h.debug() {
		out.Debug = Echo(out)
		logger.Log.WithFields(map[string]interface{}{
			"form":    h.form.Label,
			"handler": out.Handler,
		}).Info(out.Debug)
	}
	return out
}

// Echo renders the request and response of an outcome as HTML escaped text.
func Echo(out Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Web-to-Lead post to %s\n", out.Endpoint)
	b.WriteString("Request:\n")
	for _, k := range out.Payload.Keys() {
		fmt.Fprintf(&b, "  %s: %s\n", k, out.Payload[k])
	}
	if out.Response != nil {
		fmt.Fprintf(&b, "Response: %s\n", out.Response.Status)
		if out.Response.Body != "" {
			b.WriteString(out.Response.Body)
			b.WriteString("\n")
		}
	}
	if out.Error != "" {
		fmt.Fprintf(&b, "Error: %s\n", out.Error)
	}
	return html.EscapeString(b.String())
}
