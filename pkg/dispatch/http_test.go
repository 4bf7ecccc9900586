package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synaptica-ai/web2lead/pkg/forms"
	"github.com/synaptica-ai/web2lead/pkg/gateway/middleware"
	"github.com/synaptica-ai/web2lead/pkg/lead"
)

const adminToken = "admin-token"

type tokenValidator struct{}

func (tokenValidator) ValidateToken(_ context.Context, token string) (map[string]interface{}, error) {
	if token != adminToken {
		return nil, errors.New("unknown token")
	}
	return map[string]interface{}{"sub": "ops"}, nil
}

type memoryStore struct {
	forms map[string]forms.Form
}

func (s *memoryStore) Get(_ context.Context, id string) (*forms.Form, error) {
	f, ok := s.forms[id]
	if !ok {
		return nil, forms.ErrNotFound
	}
	return &f, nil
}

func (s *memoryStore) Save(_ context.Context, f *forms.Form) error {
	s.forms[f.ID] = *f
	return nil
}

func newTestRouter(sender lead.Sender, store forms.Store) *mux.Router {
	return newRouterWithAdmin(sender, store, middleware.Authenticate(tokenValidator{}))
}

func newRouterWithAdmin(sender lead.Sender, store forms.Store, admin mux.MiddlewareFunc) *mux.Router {
	registry := forms.NewRegistry([]forms.Form{contactForm()}, nil, store)
	svc := NewService(registry, lead.NewBuilder(nil), sender, nil, false)

	router := mux.NewRouter()
	NewHTTPHandler(svc, registry, admin).Register(router.PathPrefix("/api/v1").Subrouter())
	return router
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	return serveAs(router, adminToken, method, path, body)
}

func serveAs(router http.Handler, token, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHTTPSubmission(t *testing.T) {
	sender := &fakeSender{}
	router := newTestRouter(sender, nil)

	rec := serve(router, http.MethodPost, "/api/v1/submissions",
		`{"form_id":"contact","operation":"insert","data":{"email":"a@x.com"}}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var result Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.EventID)
	assert.Equal(t, lead.StatusPosted, result.Outcomes[0].Status)
	assert.Equal(t, 1, sender.calls)
}

func TestHTTPSubmissionNeedsNoToken(t *testing.T) {
	rec := serveAs(newTestRouter(&fakeSender{}, nil), "", http.MethodPost, "/api/v1/submissions",
		`{"form_id":"contact","operation":"insert","data":{"email":"a@x.com"}}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestHTTPSubmissionValidation(t *testing.T) {
	router := newTestRouter(&fakeSender{}, nil)

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodPost, "/api/v1/submissions", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodPost, "/api/v1/submissions", `{"operation":"insert"}`).Code)
}

func TestHTTPUnknownFormStillAccepted(t *testing.T) {
	rec := serve(newTestRouter(&fakeSender{}, nil), http.MethodPost, "/api/v1/submissions",
		`{"form_id":"missing","operation":"insert","data":{}}`)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), lead.ReasonUnknownForm)
}

func TestHTTPPreview(t *testing.T) {
	sender := &fakeSender{}
	router := newTestRouter(sender, nil)

	rec := serve(router, http.MethodPost, "/api/v1/forms/contact/preview", `{"data":{"email":"a@x.com"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"a@x.com"`)
	assert.Equal(t, 0, sender.calls)

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodPost, "/api/v1/forms/missing/preview", `{}`).Code)
}

func TestHTTPFormAdmin(t *testing.T) {
	store := &memoryStore{forms: map[string]forms.Form{}}
	router := newTestRouter(&fakeSender{}, store)

	rec := serve(router, http.MethodPut, "/api/v1/forms/demo",
		`{"label":"Demo","handlers":[{"endpoint_url":"https://x","organization_id":"oid-9","mapping":{"email":"email"}}]}`)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "oid-9", store.forms["demo"].Handlers[0].OrganizationID)

	rec = serve(router, http.MethodGet, "/api/v1/forms/demo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"organization_id":"oid-9"`)

	assert.Equal(t, http.StatusConflict, serve(router, http.MethodPut, "/api/v1/forms/contact", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/v1/forms/nope", "").Code)
}

func TestHTTPFormAdminWithoutStore(t *testing.T) {
	rec := serve(newTestRouter(&fakeSender{}, nil), http.MethodPut, "/api/v1/forms/demo", `{}`)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestHTTPFormAdminRequiresToken(t *testing.T) {
	store := &memoryStore{forms: map[string]forms.Form{}}
	router := newTestRouter(&fakeSender{}, store)
	body := `{"handlers":[{"endpoint_url":"https://attacker.example.com","organization_id":"00D-OTHER"}]}`

	for _, token := range []string{"", "wrong"} {
		assert.Equal(t, http.StatusUnauthorized, serveAs(router, token, http.MethodPut, "/api/v1/forms/demo", body).Code)
		assert.Equal(t, http.StatusUnauthorized, serveAs(router, token, http.MethodGet, "/api/v1/forms/contact", "").Code)
		assert.Equal(t, http.StatusUnauthorized, serveAs(router, token, http.MethodPost, "/api/v1/forms/contact/preview", `{}`).Code)
	}
	assert.Empty(t, store.forms)
}

func TestHTTPFormAdminDisabledWithoutAuthenticator(t *testing.T) {
	store := &memoryStore{forms: map[string]forms.Form{}}
	router := newRouterWithAdmin(&fakeSender{}, store, nil)

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodPut, "/api/v1/forms/demo", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/v1/forms/contact", "").Code)
	assert.Empty(t, store.forms)

	rec := serve(router, http.MethodPost, "/api/v1/submissions", `{"form_id":"contact","operation":"insert","data":{}}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
