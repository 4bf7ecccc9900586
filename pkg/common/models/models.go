package models

import (
	"time"

	"github.com/synaptica-ai/web2lead/pkg/submission"
)

// SubmissionEvent is a lifecycle notification from the form host.
type SubmissionEvent struct {
	ID         string             `json:"id"`
	FormID     string             `json:"form_id"`
	Operation  string             `json:"operation"` // insert, update, delete
	Data       *submission.Record `json:"data"`
	OccurredAt time.Time          `json:"occurred_at,omitempty"`
	Metadata   map[string]string  `json:"metadata,omitempty"`
}

// Event Bus models
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // lead.posted, lead.failed, lead.skipped
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}
