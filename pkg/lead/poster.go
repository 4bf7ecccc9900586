package lead

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	contentTypeForm = "application/x-www-form-urlencoded"
	maxResponseBody = 64 * 1024
)

// Response is the part of the endpoint reply kept for diagnostics.
type Response struct {
	StatusCode int         `json:"status_code"`
	Status     string      `json:"status"`
	Header     http.Header `json:"header,omitempty"`
	Body       string      `json:"body,omitempty"`
}

// PostError reports a failed post. Response is nil when the request never
// got an answer.
type PostError struct {
	Message  string
	Response *Response
	Err      error
}

func (e *PostError) Error() string {
	return e.Message
}

func (e *PostError) Unwrap() error {
	return e.Err
}

// Sender delivers a payload to an endpoint.
type Sender interface {
	Send(ctx context.Context, endpoint string, payload Payload) (*Response, error)
}

type Poster struct {
	client *http.Client
}

func NewPoster(client *http.Client) *Poster {
	if client == nil {
		client = http.DefaultClient
	}
	return &Poster{client: client}
}

// Send performs one form-encoded POST. Transport failures and non-2xx replies
// are returned as *PostError; nothing is retried.
func (p *Poster) Send(ctx context.Context, endpoint string, payload Payload) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
	if err != nil {
		return nil, &PostError{Message: err.Error(), Err: err}
	}
	req.Header.Set("Content-Type", contentTypeForm)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &PostError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	// The body is diagnostic only; a short read does not fail the post.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	out := &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header.Clone(),
		Body:       string(body),
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &PostError{
			Message:  fmt.Sprintf("unexpected response status %s", resp.Status),
			Response: out,
		}
	}
	return out, nil
}
