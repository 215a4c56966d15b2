package mcp

import (
	"errors"
	"fmt"

	"github.com/ganot/rota/internal/domain/review"
	"github.com/ganot/rota/internal/domain/selector"
	"github.com/ganot/rota/internal/repository"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, selector.ErrNoCandidates):
		return &APIError{Code: "NO_CANDIDATES", Message: "no eligible candidates", RecoveryHint: "Supply a non-empty candidate list or un-ignore items"}
	case errors.Is(err, review.ErrUnknownAction):
		return &APIError{Code: "UNKNOWN_ACTION", Message: "unknown review action", RecoveryHint: "Use less-often, ok, more-often, priority-max or finished"}
	case errors.Is(err, repository.ErrStorageWrite):
		return &APIError{Code: "STORAGE_WRITE_FAILED", Message: "could not persist the stats document", RecoveryHint: "Retry; durable state is unchanged"}
	case errors.Is(err, repository.ErrStorageRead):
		return &APIError{Code: "STORAGE_READ_FAILED", Message: "could not read the stats document", RecoveryHint: "Check the store path and permissions"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
