package odataClient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Uffe-Code/go-odata-http/odataQuery"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Url    string
	Header http.Header
	Body   string
}

func newRecordingServer(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			Method: r.Method,
			Url:    r.URL.RequestURI(),
			Header: r.Header.Clone(),
			Body:   string(payload),
		})
		w.Header().Set(CONTENT_TYPE, APPLICATION_JSON)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func TestNew(t *testing.T) {
	t.Run("strips trailing slashes", func(t *testing.T) {
		client, err := New(Config{EndpointUrl: "http://example.com/odata//"})
		require.NoError(t, err)
		assert.Equal(t, "http://example.com/odata", client.EndpointUrl())
	})

	t.Run("requires an endpoint", func(t *testing.T) {
		_, err := New(Config{EndpointUrl: " / "})
		assert.ErrorIs(t, err, ErrMissingEndpoint)
	})

	t.Run("default and configured headers", func(t *testing.T) {
		client, err := New(Config{EndpointUrl: "http://example.com", Headers: map[string]string{"x-api-key": "secret"}})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			DATA_SERVICE_VERSION: VERSION_4,
			ODATA_VERSION:        VERSION_4,
			ACCEPT:               APPLICATION_JSON,
			"X-Api-Key":          "secret",
		}, client.Headers())
	})

	t.Run("works as its own wrapper", func(t *testing.T) {
		client, err := New(Config{EndpointUrl: "http://example.com"})
		require.NoError(t, err)
		var wrapper Wrapper = client
		assert.Same(t, client, wrapper.ODataClient())
	})
}

func TestResolveUrl(t *testing.T) {
	client, err := New(Config{EndpointUrl: "http://example.com/odata/"})
	require.NoError(t, err)

	assert.Equal(t, "http://example.com/odata/People", client.ResolveUrl("People"))
	assert.Equal(t, "http://example.com/odata/People('a')", client.ResolveUrl("/People('a')"))
	assert.Equal(t, "https://other.example.com/People?$skiptoken=2", client.ResolveUrl("https://other.example.com/People?$skiptoken=2"))
	assert.Equal(t, "http://example.com/odata/", client.ResolveUrl(""))
	assert.Equal(t, "http://example.com/odata/(1)", client.ResolveUrl("(1)"))
}

func TestGet(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusOK, `{"value":[]}`)
	client, err := New(Config{EndpointUrl: server.URL + "/"})
	require.NoError(t, err)
	client.AddHeader("authorization", "Bearer token")

	response, err := client.Get(context.Background(), "People", map[string]string{"X-Trace": "1"}, &odataQuery.Options{Top: 2})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, `{"value":[]}`, string(response.Body))

	require.Len(t, *requests, 1)
	request := (*requests)[0]
	assert.Equal(t, http.MethodGet, request.Method)
	assert.Equal(t, "/People?$top=2", request.Url)
	assert.Equal(t, VERSION_4, request.Header.Get(ODATA_VERSION))
	assert.Equal(t, APPLICATION_JSON, request.Header.Get(ACCEPT))
	assert.Equal(t, "Bearer token", request.Header.Get("Authorization"))
	assert.Equal(t, "1", request.Header.Get("X-Trace"))
}

func TestMethods(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusOK, `{}`)
	client, err := New(Config{EndpointUrl: server.URL})
	require.NoError(t, err)
	ctx := context.Background()
	body := []byte(`{"Name":"x"}`)

	_, err = client.Post(ctx, "People", body, nil, nil)
	require.NoError(t, err)
	_, err = client.Put(ctx, "People(1)", body, nil, nil)
	require.NoError(t, err)
	_, err = client.Patch(ctx, "People(1)", body, map[string]string{CONTENT_TYPE: APPLICATION_JSON}, nil)
	require.NoError(t, err)
	_, err = client.Delete(ctx, "People(1)", nil, nil)
	require.NoError(t, err)
	_, err = client.Head(ctx, "People", nil, &odataQuery.Options{Format: "json"})
	require.NoError(t, err)

	require.Len(t, *requests, 5)
	methods := []string{}
	for _, request := range *requests {
		methods = append(methods, request.Method)
	}
	assert.Equal(t, []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead}, methods)

	assert.Equal(t, `{"Name":"x"}`, (*requests)[0].Body)
	assert.Equal(t, JSON_MINIMAL_METADATA, (*requests)[0].Header.Get(CONTENT_TYPE))
	assert.Equal(t, APPLICATION_JSON, (*requests)[2].Header.Get(CONTENT_TYPE))
	assert.Empty(t, (*requests)[3].Header.Get(CONTENT_TYPE))
	assert.Equal(t, "/People?$format=json", (*requests)[4].Url)
}

func TestStatusError(t *testing.T) {
	t.Run("json error body", func(t *testing.T) {
		server, _ := newRecordingServer(t, http.StatusBadRequest, `{"error":{"code":"400","message":"bad filter"}}`)
		client, err := New(Config{EndpointUrl: server.URL})
		require.NoError(t, err)

		response, err := client.Get(context.Background(), "People", nil, &odataQuery.Options{Filter: "bogus"})
		require.Error(t, err)
		require.NotNil(t, response)

		var message ErrorMessage
		require.True(t, errors.As(err, &message))
		assert.Equal(t, http.StatusBadRequest, message.ErrorNo)
		assert.Equal(t, server.URL+"/People?$filter=bogus", message.RequestUrl)
		assert.Equal(t, map[string]interface{}{"error": map[string]interface{}{"code": "400", "message": "bad filter"}}, message.Details)

		status, ok := StatusCode(err)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("text error body", func(t *testing.T) {
		server, _ := newRecordingServer(t, http.StatusInternalServerError, `boom`)
		client, err := New(Config{EndpointUrl: server.URL})
		require.NoError(t, err)

		_, err = client.Get(context.Background(), "People", nil, nil)
		var message ErrorMessage
		require.True(t, errors.As(err, &message))
		assert.Equal(t, "boom", message.Details)
		assert.Contains(t, err.Error(), `"errorNo": 500`)
	})
}

func TestTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client, err := New(Config{EndpointUrl: server.URL})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Get(ctx, "People", nil, nil)
	server.Close()

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	status, ok := StatusCode(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestWithTransport(t *testing.T) {
	var gotUrl string
	var gotHeaders map[string]string
	transport := TransportFunc(func(ctx context.Context, method string, url string, body []byte, headers map[string]string) (*Response, error) {
		gotUrl = url
		gotHeaders = headers
		return &Response{StatusCode: http.StatusNoContent}, nil
	})
	client, err := New(Config{EndpointUrl: "http://example.com/svc"}, WithTransport(transport))
	require.NoError(t, err)

	response, err := client.Delete(context.Background(), "People(7)", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, response.StatusCode)
	assert.Equal(t, "http://example.com/svc/People(7)", gotUrl)
	assert.Equal(t, VERSION_4, gotHeaders[ODATA_VERSION])

	data, err := response.Decode()
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestWithHTTPClient(t *testing.T) {
	server, requests := newRecordingServer(t, http.StatusOK, `{}`)
	client, err := New(Config{EndpointUrl: server.URL}, WithHTTPClient(server.Client()))
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "$metadata", nil, nil)
	require.NoError(t, err)
	require.Len(t, *requests, 1)
	assert.Equal(t, "/$metadata", (*requests)[0].Url)
}

func TestMetrics(t *testing.T) {
	responses := []int{http.StatusOK, http.StatusOK, http.StatusNotFound}
	transport := TransportFunc(func(ctx context.Context, method string, url string, body []byte, headers map[string]string) (*Response, error) {
		status := responses[0]
		responses = responses[1:]
		return &Response{StatusCode: status, Body: []byte(`{}`)}, nil
	})
	metrics := NewMetrics()
	client, err := New(Config{EndpointUrl: "http://example.com"}, WithTransport(transport), WithMetrics(metrics))
	require.NoError(t, err)

	ctx := context.Background()
	_, _ = client.Get(ctx, "People", nil, nil)
	_, _ = client.Get(ctx, "People", nil, nil)
	_, err = client.Get(ctx, "Nobody", nil, nil)
	assert.Error(t, err)

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.requestsTotal.WithLabelValues(http.MethodGet, "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.requestsTotal.WithLabelValues(http.MethodGet, "404")))
	count, err := testutil.GatherAndCount(metrics.Registry(), "odata_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var metrics *Metrics
	assert.NotPanics(t, func() { metrics.RecordRequest(http.MethodGet, 200, 0) })
}

func TestDuration(t *testing.T) {
	var duration Duration
	require.NoError(t, duration.UnmarshalText([]byte("1m30s")))
	assert.Equal(t, Duration(90*time.Second), duration)

	require.NoError(t, duration.UnmarshalText([]byte("250")))
	assert.Equal(t, Duration(250), duration)

	require.NoError(t, duration.UnmarshalText([]byte("")))
	assert.Zero(t, duration)

	assert.Error(t, duration.UnmarshalText([]byte("soon")))

	require.NoError(t, json.Unmarshal([]byte(`"2s"`), &duration))
	assert.Equal(t, Duration(2*time.Second), duration)
	require.NoError(t, json.Unmarshal([]byte(`1000`), &duration))
	assert.Equal(t, Duration(time.Microsecond), duration)
	assert.Error(t, json.Unmarshal([]byte(`true`), &duration))

	data, err := json.Marshal(Duration(90 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(data))
}
