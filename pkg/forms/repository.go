package forms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = errors.New("form not configured")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&Record{})
}

// Save inserts or replaces the configuration of form.ID.
func (r *Repository) Save(ctx context.Context, form *Form) error {
	handlers, err := json.Marshal(form.Handlers)
	if err != nil {
		return fmt.Errorf("encoding handlers: %w", err)
	}

	now := time.Now().UTC()
	rec := &Record{
		ID:        uuid.New().String(),
		FormID:    form.ID,
		Label:     form.Label,
		Handlers:  datatypes.JSON(handlers),
		CreatedAt: now,
		UpdatedAt: now,
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "form_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"label", "handlers", "updated_at"}),
	}).Create(rec).Error
}

func (r *Repository) Get(ctx context.Context, formID string) (*Form, error) {
	var rec Record
	result := r.db.WithContext(ctx).First(&rec, "form_id = ?", formID)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return rec.ToForm()
}

func (r *Repository) List(ctx context.Context) ([]Form, error) {
	var recs []Record
	if err := r.db.WithContext(ctx).Order("form_id").Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]Form, 0, len(recs))
	for _, rec := range recs {
		form, err := rec.ToForm()
		if err != nil {
			return nil, err
		}
		out = append(out, *form)
	}
	return out, nil
}
