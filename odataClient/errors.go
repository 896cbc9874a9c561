package odataClient

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingEndpoint is returned by New when no endpoint url is configured.
var ErrMissingEndpoint = errors.New("odataClient: missing endpoint url")

// ErrorMessage describes a failed request. ErrorNo carries the HTTP status of the response,
// or http.StatusInternalServerError when no response was received.
type ErrorMessage struct {
	Message    string      `json:"message,omitempty"`
	ErrorNo    int         `json:"errorNo"`
	Function   string      `json:"function,omitempty"`
	Attempted  string      `json:"attempted,omitempty"`
	Body       interface{} `json:"body,omitempty"`
	Details    interface{} `json:"detail,omitempty"`
	InnerError interface{} `json:"err,omitempty"`
	RequestUrl string      `json:"requestUrl,omitempty"`
}

func (ts ErrorMessage) Error() string {
	if err, ok := ts.InnerError.(error); ok {
		ts.InnerError = err.Error()
	}
	bytes, err := json.MarshalIndent(ts, "", "  ")
	if err != nil {
		return fmt.Sprintf("Function: %s: Attempted: %s Details: %+v Body: %s", ts.Function, ts.Attempted, ts.Details, ts.Body)
	}
	return string(bytes)
}

// Unwrap returns the inner error, if any.
func (ts ErrorMessage) Unwrap() error {
	if err, ok := ts.InnerError.(error); ok {
		return err
	}
	return nil
}

// StatusCode returns the HTTP status carried by an ErrorMessage anywhere in err's chain.
func StatusCode(err error) (int, bool) {
	var message ErrorMessage
	if errors.As(err, &message) {
		return message.ErrorNo, true
	}
	return 0, false
}
