package forms

import (
	"context"
	"errors"
	"fmt"

	"github.com/synaptica-ai/web2lead/pkg/common/logger"
)

// Store is the durable source of form configuration.
type Store interface {
	Get(ctx context.Context, formID string) (*Form, error)
	Save(ctx context.Context, form *Form) error
}

// Lister is implemented by stores that can enumerate every form.
type Lister interface {
	List(ctx context.Context) ([]Form, error)
}

// FormCache fronts a Store. Get returns ErrCacheMiss for absent entries.
type FormCache interface {
	Get(ctx context.Context, formID string) (*Form, error)
	Set(ctx context.Context, form *Form) error
	Invalidate(ctx context.Context, formID string) error
}

var ErrReadOnly = errors.New("no writable form store configured")

// Registry resolves form configuration from the static file first, then the
// cache, then the store. Store and cache are optional.
type Registry struct {
	static map[string]Form
	cache  FormCache
	store  Store
}

func NewRegistry(static []Form, cache FormCache, store Store) *Registry {
	m := make(map[string]Form, len(static))
	for _, f := range static {
		Inspect(f)
		m[f.ID] = f
	}
	return &Registry{static: m, cache: cache, store: store}
}

func (r *Registry) Get(ctx context.Context, formID string) (*Form, error) {
	if f, ok := r.static[formID]; ok {
		return &f, nil
	}

	if r.cache != nil {
		f, err := r.cache.Get(ctx, formID)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			logger.Log.WithError(err).WithField("form_id", formID).Warn("form cache read failed")
		}
	}

	if r.store == nil {
		return nil, ErrNotFound
	}
	f, err := r.store.Get(ctx, formID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading form %s: %w", formID, err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, f); err != nil {
			logger.Log.WithError(err).WithField("form_id", formID).Warn("form cache write failed")
		}
	}
	return f, nil
}

// Save persists form configuration and drops any cached copy.
func (r *Registry) Save(ctx context.Context, form *Form) error {
	if form.ID == "" {
		return ErrMissingFormID
	}
	if r.store == nil {
		return ErrReadOnly
	}
	Inspect(*form)
	if err := r.store.Save(ctx, form); err != nil {
		return fmt.Errorf("saving form %s: %w", form.ID, err)
	}
	if r.cache != nil {
		if err := r.cache.Invalidate(ctx, form.ID); err != nil {
			logger.Log.WithError(err).WithField("form_id", form.ID).Warn("form cache invalidation failed")
		}
	}
	return nil
}

// Warm loads every stored form into the cache and returns how many were
// cached. It does nothing without a cache or a store that can list.
func (r *Registry) Warm(ctx context.Context) (int, error) {
	lister, ok := r.store.(Lister)
	if r.cache == nil || !ok {
		return 0, nil
	}
	stored, err := lister.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing forms: %w", err)
	}

	cached := 0
	for i := range stored {
		if r.IsStatic(stored[i].ID) {
			continue
		}
		Inspect(stored[i])
		if err := r.cache.Set(ctx, &stored[i]); err != nil {
			logger.Log.WithError(err).WithField("form_id", stored[i].ID).Warn("form cache write failed")
			continue
		}
		cached++
	}
	return cached, nil
}

// IsStatic reports whether formID comes from the static file. Static forms
// shadow stored ones.
func (r *Registry) IsStatic(formID string) bool {
	_, ok := r.static[formID]
	return ok
}
