package odataClient

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/bytedance/sonic"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSON parses the body into v.
func (response *Response) JSON(v any) error {
	if len(response.Body) > largeBodySize {
		return sonic.Unmarshal(response.Body, v)
	}
	return json.Unmarshal(response.Body, v)
}

// Decode parses the body into generic JSON values. An empty body, as sent with
// 204 No Content, decodes to nil.
func (response *Response) Decode() (any, error) {
	if len(bytes.TrimSpace(response.Body)) == 0 {
		return nil, nil
	}
	var data any
	if err := response.JSON(&data); err != nil {
		return nil, ErrorMessage{
			Message:    err.Error(),
			ErrorNo:    response.StatusCode,
			Function:   "odataClient.Response.Decode",
			Attempted:  "err := response.JSON(&data)",
			Body:       string(response.Body),
			InnerError: err,
		}
	}
	return data, nil
}
