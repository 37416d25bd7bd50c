package api

import "fmt"

// StatusError is any non-2xx reply from the backend.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d", e.Code)
}

// checked folds transport errors and error statuses into one error value.
func checked(code int, body string, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if code < 200 || code > 299 {
		return &StatusError{Code: code, Body: body}
	}
	return nil
}
