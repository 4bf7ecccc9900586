package forms

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synaptica-ai/web2lead/pkg/common/logger"
	"github.com/synaptica-ai/web2lead/pkg/lead"
)

func init() {
	logger.Discard()
}

type memoryStore struct {
	forms map[string]Form
	gets  int
	err   error
}

func (s *memoryStore) Get(_ context.Context, id string) (*Form, error) {
	s.gets++
	if s.err != nil {
		return nil, s.err
	}
	f, ok := s.forms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (s *memoryStore) List(_ context.Context) ([]Form, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]Form, 0, len(s.forms))
	for _, f := range s.forms {
		out = append(out, f)
	}
	return out, nil
}

func (s *memoryStore) Save(_ context.Context, f *Form) error {
	if s.forms == nil {
		s.forms = map[string]Form{}
	}
	s.forms[f.ID] = *f
	return nil
}

type memoryCache struct {
	forms       map[string]Form
	invalidated []string
	readErr     error
}

func (c *memoryCache) Get(_ context.Context, id string) (*Form, error) {
	if c.readErr != nil {
		return nil, c.readErr
	}
	f, ok := c.forms[id]
	if !ok {
		return nil, ErrCacheMiss
	}
	return &f, nil
}

func (c *memoryCache) Set(_ context.Context, f *Form) error {
	if c.forms == nil {
		c.forms = map[string]Form{}
	}
	c.forms[f.ID] = *f
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, id string) error {
	delete(c.forms, id)
	c.invalidated = append(c.invalidated, id)
	return nil
}

func TestRegistryPrefersStaticForms(t *testing.T) {
	store := &memoryStore{forms: map[string]Form{"contact": {ID: "contact", Label: "stored"}}}
	r := NewRegistry([]Form{{ID: "contact", Label: "static"}}, nil, store)

	f, err := r.Get(context.Background(), "contact")
	require.NoError(t, err)
	assert.Equal(t, "static", f.Label)
	assert.Equal(t, 0, store.gets)
	assert.True(t, r.IsStatic("contact"))
}

func TestRegistryFillsCacheFromStore(t *testing.T) {
	store := &memoryStore{forms: map[string]Form{"demo": {ID: "demo", Label: "Demo request"}}}
	cache := &memoryCache{}
	r := NewRegistry(nil, cache, store)

	for i := 0; i < 3; i++ {
		f, err := r.Get(context.Background(), "demo")
		require.NoError(t, err)
		assert.Equal(t, "Demo request", f.Label)
	}
	assert.Equal(t, 1, store.gets)
}

func TestRegistryFallsBackWhenCacheFails(t *testing.T) {
	store := &memoryStore{forms: map[string]Form{"demo": {ID: "demo"}}}
	r := NewRegistry(nil, &memoryCache{readErr: errors.New("connection refused")}, store)

	_, err := r.Get(context.Background(), "demo")
	assert.NoError(t, err)
}

func TestRegistryNotFound(t *testing.T) {
	_, err := NewRegistry(nil, nil, nil).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = NewRegistry(nil, &memoryCache{}, &memoryStore{}).Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegistryWrapsStoreErrors(t *testing.T) {
	cause := errors.New("db down")
	_, err := NewRegistry(nil, nil, &memoryStore{err: cause}).Get(context.Background(), "x")
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRegistrySaveInvalidatesCache(t *testing.T) {
	store := &memoryStore{}
	cache := &memoryCache{forms: map[string]Form{"demo": {ID: "demo", Label: "old"}}}
	r := NewRegistry(nil, cache, store)

	form := &Form{ID: "demo", Label: "new", Handlers: []lead.Settings{{OrganizationID: "oid-1"}}}
	require.NoError(t, r.Save(context.Background(), form))

	assert.Equal(t, []string{"demo"}, cache.invalidated)
	f, err := r.Get(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, "new", f.Label)
}

func TestRegistrySaveWithoutStore(t *testing.T) {
	err := NewRegistry(nil, nil, nil).Save(context.Background(), &Form{ID: "demo"})
	assert.ErrorIs(t, err, ErrReadOnly)

	err = NewRegistry(nil, nil, &memoryStore{}).Save(context.Background(), &Form{})
	assert.ErrorIs(t, err, ErrMissingFormID)
}

func TestRegistryWarmFillsCache(t *testing.T) {
	store := &memoryStore{forms: map[string]Form{
		"demo":    {ID: "demo", Label: "Demo request"},
		"contact": {ID: "contact", Label: "stored contact"},
	}}
	cache := &memoryCache{}
	r := NewRegistry([]Form{{ID: "contact", Label: "static"}}, cache, store)

	n, err := r.Warm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, cache.forms, "demo")
	assert.NotContains(t, cache.forms, "contact")

	f, err := r.Get(context.Background(), "demo")
	require.NoError(t, err)
	assert.Equal(t, "Demo request", f.Label)
	assert.Equal(t, 0, store.gets)
}

func TestRegistryWarmWithoutCacheOrStore(t *testing.T) {
	n, err := NewRegistry(nil, nil, &memoryStore{forms: map[string]Form{"demo": {ID: "demo"}}}).Warm(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = NewRegistry(nil, &memoryCache{}, nil).Warm(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestRegistryWarmReportsListErrors(t *testing.T) {
	cause := errors.New("db down")
	_, err := NewRegistry(nil, &memoryCache{}, &memoryStore{err: cause}).Warm(context.Background())
	assert.ErrorIs(t, err, cause)
}
