// Package odataClient sends requests to an OData service. Every url is resolved against a
// fixed endpoint and may carry odataQuery options.
package odataClient

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Uffe-Code/go-odata-http/logging"
	"github.com/Uffe-Code/go-odata-http/odataQuery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Config is the endpoint configuration of a Client.
type Config struct {
	EndpointUrl string            `json:"endpointUrl" yaml:"endpointUrl" toml:"endpointUrl" envconfig:"ODATA_ENDPOINT_URL"`
	Headers     map[string]string `json:"headers" yaml:"headers" toml:"headers" envconfig:"ODATA_HEADERS"`
	// Timeout applies to the default transport only. Zero means no timeout.
	Timeout Duration `json:"timeout" yaml:"timeout" toml:"timeout" envconfig:"ODATA_TIMEOUT"`
}

// Client is a connection to an OData REST API. Relative urls are joined to the endpoint
// with exactly one slash, so "People(1)" and "/People(1)" both request <endpoint>/People(1)
// and "" requests <endpoint>/. Absolute http(s) urls are requested unchanged.
type Client struct {
	endpointUrl string
	timeout     time.Duration
	transport   Transport
	logger      *zap.Logger
	metrics     *Metrics

	mu      sync.RWMutex
	headers map[string]string
}

// Wrapper represents a wrapper around the OData client if you have built your own code around it,
// for authentication etc.
type Wrapper interface {
	ODataClient() *Client
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the default resty transport.
func WithTransport(transport Transport) Option {
	return func(client *Client) {
		client.transport = transport
	}
}

// WithHTTPClient sends requests through httpClient instead of a fresh one.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		client.transport = NewRestyTransport(resty.NewWithClient(httpClient))
	}
}

// WithLogger sets the logger. Requests are logged at debug, failures at warn.
func WithLogger(logger *zap.Logger) Option {
	return func(client *Client) {
		if logger != nil {
			client.logger = logger
		}
	}
}

// WithMetrics records every request in metrics.
func WithMetrics(metrics *Metrics) Option {
	return func(client *Client) {
		client.metrics = metrics
	}
}

// New creates a client for cfg.EndpointUrl. Trailing slashes of the endpoint are dropped.
func New(cfg Config, options ...Option) (*Client, error) {
	endpointUrl := strings.TrimRight(strings.TrimSpace(cfg.EndpointUrl), SLASH)
	if endpointUrl == "" {
		return nil, ErrMissingEndpoint
	}

	client := &Client{
		endpointUrl: endpointUrl,
		timeout:     time.Duration(cfg.Timeout),
		logger:      logging.NewNop(),
		headers: map[string]string{
			DATA_SERVICE_VERSION: VERSION_4,
			ODATA_VERSION:        VERSION_4,
			ACCEPT:               APPLICATION_JSON,
		},
	}
	for key, value := range cfg.Headers {
		client.headers[http.CanonicalHeaderKey(key)] = value
	}
	for _, option := range options {
		option(client)
	}

	if client.transport == nil {
		restyClient := resty.New().SetLogger(client.logger.Sugar())
		if client.timeout > 0 {
			restyClient.SetTimeout(client.timeout)
		}
		client.transport = NewRestyTransport(restyClient)
	}

	return client, nil
}

// ODataClient will return self, so it also works as a wrapper in case we don't have a wrapper.
func (client *Client) ODataClient() *Client {
	return client
}

// EndpointUrl returns the endpoint without trailing slash.
func (client *Client) EndpointUrl() string {
	return client.endpointUrl
}

// AddHeader will add a custom HTTP Header to the API requests.
func (client *Client) AddHeader(key string, value string) {
	client.mu.Lock()
	defer client.mu.Unlock()
	client.headers[http.CanonicalHeaderKey(key)] = value
}

// Headers returns a copy of the default headers.
func (client *Client) Headers() map[string]string {
	client.mu.RLock()
	defer client.mu.RUnlock()
	headers := make(map[string]string, len(client.headers))
	for key, value := range client.headers {
		headers[key] = value
	}
	return headers
}

// ResolveUrl prefixes url with the endpoint using exactly one slash. Absolute urls, such as
// an @odata.nextLink, are returned unchanged.
func (client *Client) ResolveUrl(url string) string {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return client.endpointUrl + SLASH + strings.TrimLeft(url, SLASH)
}

func (client *Client) requestHeaders(body []byte, headers map[string]string) map[string]string {
	merged := client.Headers()
	for key, value := range headers {
		merged[http.CanonicalHeaderKey(key)] = value
	}
	if body != nil {
		if _, ok := merged[CONTENT_TYPE]; !ok {
			merged[CONTENT_TYPE] = JSON_MINIMAL_METADATA
		}
	}
	return merged
}

// Request performs a request of any method. The options are injected into url before it is
// resolved against the endpoint with ResolveUrl, so a bare key such as "(1)" becomes
// <endpoint>/(1) rather than being appended to the endpoint's last segment. A status of 400
// or above is returned as an ErrorMessage together with the response.
func (client *Client) Request(ctx context.Context, method string, url string, body []byte, headers map[string]string, options *odataQuery.Options) (*Response, error) {
	requestUrl := client.ResolveUrl(odataQuery.Inject(url, options))

	start := time.Now()
	response, err := client.transport.Execute(ctx, method, requestUrl, body, client.requestHeaders(body, headers))
	duration := time.Since(start)

	statusCode := 0
	if response != nil {
		statusCode = response.StatusCode
	}
	client.metrics.RecordRequest(method, statusCode, duration)

	if err == nil && statusCode >= http.StatusBadRequest {
		err = statusError(requestUrl, response)
	}
	if err != nil {
		client.logger.Warn("odata request failed",
			zap.String("method", method),
			zap.String("url", requestUrl),
			zap.Int("status", statusCode),
			zap.Duration("duration", duration),
			zap.Error(err))
		return response, err
	}

	client.logger.Debug("odata request",
		zap.String("method", method),
		zap.String("url", requestUrl),
		zap.Int("status", statusCode),
		zap.Duration("duration", duration))
	return response, nil
}

func statusError(requestUrl string, response *Response) error {
	message := ErrorMessage{
		Function:   "odataClient.Client.Request",
		Attempted:  "response, err := client.transport.Execute(ctx, method, requestUrl, body, headers)",
		ErrorNo:    response.StatusCode,
		RequestUrl: requestUrl,
	}
	var data map[string]interface{}
	if err := json.Unmarshal(response.Body, &data); err != nil {
		message.Details = string(response.Body)
	} else {
		message.Details = data
	}
	return message
}

// Get performs a request with `get` http method.
func (client *Client) Get(ctx context.Context, url string, headers map[string]string, options *odataQuery.Options) (*Response, error) {
	return client.Request(ctx, http.MethodGet, url, nil, headers, options)
}

// Post performs a request with `post` http method.
func (client *Client) Post(ctx context.Context, url string, body []byte, headers map[string]string, options *odataQuery.Options) (*Response, error) {
	return client.Request(ctx, http.MethodPost, url, body, headers, options)
}

// Put performs a request with `put` http method.
func (client *Client) Put(ctx context.Context, url string, body []byte, headers map[string]string, options *odataQuery.Options) (*Response, error) {
	return client.Request(ctx, http.MethodPut, url, body, headers, options)
}

// Patch performs a request with `patch` http method.
func (client *Client) Patch(ctx context.Context, url string, body []byte, headers map[string]string, options *odataQuery.Options) (*Response, error) {
	return client.Request(ctx, http.MethodPatch, url, body, headers, options)
}

// Delete performs a request with `delete` http method.
func (client *Client) Delete(ctx context.Context, url string, headers map[string]string, options *odataQuery.Options) (*Response, error) {
	return client.Request(ctx, http.MethodDelete, url, nil, headers, options)
}

// Head performs a request with `head` http method.
func (client *Client) Head(ctx context.Context, url string, headers map[string]string, options *odataQuery.Options) (*Response, error) {
	return client.Request(ctx, http.MethodHead, url, nil, headers, options)
}
