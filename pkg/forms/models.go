package forms

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/synaptica-ai/web2lead/pkg/lead"
	"gorm.io/datatypes"
)

// Form is the configuration bundle for one host form: every lead handler
// attached to it.
type Form struct {
	ID       string          `yaml:"id" json:"id"`
	Label    string          `yaml:"label" json:"label"`
	Handlers []lead.Settings `yaml:"handlers" json:"handlers"`
}

func (f Form) Ref() lead.Form {
	label := f.Label
	if label == "" {
		label = f.ID
	}
	return lead.Form{ID: f.ID, Label: label}
}

type Record struct {
	ID        string         `gorm:"primaryKey;column:id"`
	FormID    string         `gorm:"column:form_id;uniqueIndex"`
	Label     string         `gorm:"column:label"`
	Handlers  datatypes.JSON `gorm:"column:handlers"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (Record) TableName() string {
	return "lead_forms"
}

func (r Record) ToForm() (*Form, error) {
	form := &Form{ID: r.FormID, Label: r.Label}
	if len(r.Handlers) > 0 {
		if err := json.Unmarshal(r.Handlers, &form.Handlers); err != nil {
			return nil, fmt.Errorf("decoding handlers for form %s: %w", r.FormID, err)
		}
	}
	return form, nil
}
