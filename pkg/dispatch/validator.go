package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/synaptica-ai/web2lead/pkg/common/models"
	"github.com/synaptica-ai/web2lead/pkg/submission"
)

var (
	errMissingForm      = errors.New("form_id required")
	errInvalidOperation = errors.New("invalid operation")
)

type ValidationError struct {
	reason error
}

func (e ValidationError) Error() string {
	return e.reason.Error()
}

func (e ValidationError) Unwrap() error {
	return e.reason
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// Validate checks the envelope of a submission event. The submitted data
// itself is never validated; unmapped or odd values are simply not sent.
func Validate(event models.SubmissionEvent) error {
	if strings.TrimSpace(event.FormID) == "" {
		return ValidationError{reason: errMissingForm}
	}
	switch submission.ParseOperation(event.Operation) {
	case submission.OperationInsert, submission.OperationUpdate, submission.OperationDelete:
		return nil
	default:
		return ValidationError{reason: fmt.Errorf("operation '%s' not supported: %w", event.Operation, errInvalidOperation)}
	}
}
