package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/myemma/emma-go/pkg/emma/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Adapter is the transport contract that the object model consumes. All four
// operations return the decoded response body, a nil value when the platform
// answers 404, and an error for any other non-success status.
type Adapter interface {
	Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
	Put(ctx context.Context, path string, body any) (json.RawMessage, error)
	Delete(ctx context.Context, path string, params url.Values) (json.RawMessage, error)
}

const DefaultBaseURL string = "https://api.e2ma.net"

const (
	TraceAttributeAccountID string = "emma-account-id"
	TraceAttributeAPIPath   string = "emma-api-path"
)

var tracer = otel.Tracer("emma-go/api")

func Debug(enabled string) func(*apiClient) {
	return func(a *apiClient) {
		a.debug = (enabled == "true")
	}
}

func BaseURL(baseURL string) func(*apiClient) {
	return func(a *apiClient) {
		a.baseURL = baseURL
	}
}

// HTTPClient replaces the default instrumented client.
func HTTPClient(httpClient *http.Client) func(*apiClient) {
	return func(a *apiClient) {
		a.httpClient = httpClient
	}
}

// New creates an Adapter scoped to one account. Requests authenticate with
// basic credentials built from the account's public and private api keys.
func New(accountID, publicKey, privateKey string, options ...func(*apiClient)) Adapter {
	a := &apiClient{
		baseURL:    DefaultBaseURL,
		accountID:  accountID,
		publicKey:  publicKey,
		privateKey: privateKey,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		debug: false,
	}

	for _, option := range options {
		option(a)
	}

	return a
}

type apiClient struct {
	baseURL    string
	accountID  string
	publicKey  string
	privateKey string
	httpClient *http.Client
	debug      bool
}

func (a apiClient) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return a.call(ctx, "get", http.MethodGet, path+encodeParams(params), nil)
}

func (a apiClient) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return a.call(ctx, "post", http.MethodPost, path, body)
}

func (a apiClient) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return a.call(ctx, "put", http.MethodPut, path, body)
}

func (a apiClient) Delete(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return a.call(ctx, "delete", http.MethodDelete, path+encodeParams(params), nil)
}

func (a apiClient) call(ctx context.Context, name, method, path string, body any) (json.RawMessage, error) {
	var err error

	ctx, span := tracer.Start(ctx, name,
		trace.WithAttributes(attribute.String(TraceAttributeAccountID, a.accountID)),
		trace.WithAttributes(attribute.String(TraceAttributeAPIPath, path)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	var requestBody io.Reader
	if body != nil {
		var b []byte
		b, err = json.Marshal(body)
		if err != nil {
			err = fmt.Errorf("failed to marshal request body: %w", err)
			return nil, err
		}
		requestBody = bytes.NewBuffer(b)
	}

	endpoint := a.baseURL + "/" + a.accountID + path

	req, err := http.NewRequestWithContext(ctx, method, endpoint, requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.SetBasicAuth(a.publicKey, a.privateKey)
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		if a.debug {
			reqbytes, _ := httputil.DumpRequest(req, false)
			respbytes, _ := httputil.DumpResponse(resp, false)

			log := logging.GetFromContext(ctx)
			log.Error("request failed", "request", string(reqbytes), "response", string(respbytes))
		}

		err = errors.NewRequestFailedError(resp.StatusCode, respBody)
		return nil, err
	}

	return json.RawMessage(respBody), nil
}

func encodeParams(params url.Values) string {
	if len(params) == 0 {
		return ""
	}

	return "?" + params.Encode()
}
