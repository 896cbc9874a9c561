package odataClient

import (
	"context"
	"net/http"

	"github.com/go-resty/resty/v2"
)

// Transport is the HTTP capability the client is built on. Implementations return the
// response for any status code; only failures to get a response are errors.
type Transport interface {
	Execute(ctx context.Context, method string, url string, body []byte, headers map[string]string) (*Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, method string, url string, body []byte, headers map[string]string) (*Response, error)

func (f TransportFunc) Execute(ctx context.Context, method string, url string, body []byte, headers map[string]string) (*Response, error) {
	return f(ctx, method, url, body, headers)
}

type restyTransport struct {
	client *resty.Client
}

// NewRestyTransport returns a Transport sending requests through client.
func NewRestyTransport(client *resty.Client) Transport {
	return &restyTransport{client: client}
}

func (transport *restyTransport) Execute(ctx context.Context, method string, url string, body []byte, headers map[string]string) (*Response, error) {
	request := transport.client.R().
		SetContext(ctx).
		SetHeaders(headers)
	if body != nil {
		request.SetBody(body)
	}

	response, err := request.Execute(method, url)
	if err != nil {
		return nil, ErrorMessage{
			Function:   "odataClient.restyTransport.Execute",
			Attempted:  "response, err := request.Execute(method, url)",
			InnerError: err,
			ErrorNo:    http.StatusInternalServerError,
			RequestUrl: url,
		}
	}

	return &Response{
		StatusCode: response.StatusCode(),
		Header:     response.Header(),
		Body:       response.Body(),
	}, nil
}
