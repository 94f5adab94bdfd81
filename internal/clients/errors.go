package clients

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnauthorized matches any APIError with status 401.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx answer from the service.
type APIError struct {
	Status int
	// Detail is the service-provided explanation, empty when none was sent.
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// Is reports whether the error matches target.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Msg string `json:"msg"`
}

func newAPIError(status int, payload []byte) *APIError {
	apiErr := &APIError{Status: status}

	var body errorBody
	if err := json.Unmarshal(payload, &body); err != nil || len(body.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err == nil {
		apiErr.Detail = detail
		return apiErr
	}

	// request validation failures carry a list of issues instead of a string
	var issues []validationIssue
	if err := json.Unmarshal(body.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			if issue.Msg != "" {
				msgs = append(msgs, issue.Msg)
			}
		}
		apiErr.Detail = strings.Join(msgs, "; ")
	}

	return apiErr
}

// Detail extracts the service-provided explanation from err, if any.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}
