// Package pushover is a client for the Pushover message API.
package pushover

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	DefaultEndpoint = "https://api.pushover.net/1/messages.json"

	defaultTimeout = 10 * time.Second
)

// Send outcomes reported to an Observer.
const (
	OutcomeSent           = "sent"
	OutcomeLogicalFailure = "logical_failure"
	OutcomeRejected       = "rejected"
	OutcomeTransportError = "transport_error"
)

// Observer receives one call per completed SendMessage round trip.
type Observer interface {
	ObserveSend(outcome string, duration time.Duration)
}

// Result is the decoded service response. Status 1 means the message was
// accepted; any other value is a failure reported by the service.
type Result struct {
	Status  int      `json:"status"`
	Request string   `json:"request"`
	Receipt string   `json:"receipt,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func (r *Result) OK() bool {
	return r != nil && r.Status == 1
}

// Client sends messages on behalf of one set of credentials. It holds no
// per-call state and may be shared between goroutines.
type Client struct {
	creds    Credentials
	client   *resty.Client
	timeout  time.Duration
	endpoint string
	logger   *zap.Logger
	observer Observer
}

type Option func(*clientOptions)

type clientOptions struct {
	endpoint string
	client   *resty.Client
	timeout  time.Duration
	logger   *zap.Logger
	observer Observer
}

func WithEndpoint(endpoint string) Option {
	return func(o *clientOptions) { o.endpoint = endpoint }
}

// WithHTTPClient borrows the *http.Client behind client (transport, jar, its
// own Timeout). The resty client itself is never modified; its retry count,
// headers and hooks are not used.
func WithHTTPClient(client *resty.Client) Option {
	return func(o *clientOptions) { o.client = client }
}

// WithTimeout bounds each SendMessage round trip through its context. The
// default is 10s.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) { o.timeout = timeout }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

func WithObserver(observer Observer) Option {
	return func(o *clientOptions) { o.observer = observer }
}

// New validates creds and builds a client. It performs no network access.
func New(creds Credentials, opts ...Option) (*Client, error) {
	if err := creds.validate(); err != nil {
		return nil, err
	}

	o := clientOptions{endpoint: DefaultEndpoint}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	endpoint := strings.TrimSpace(o.endpoint)
	parsed, err := url.ParseRequestURI(endpoint)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("%w: invalid endpoint %q", ErrConfiguration, o.endpoint)
	}

	client := resty.New()
	if o.client != nil {
		client = resty.NewWithClient(o.client.GetClient())
	}
	client.SetRetryCount(0)

	timeout := o.timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := o.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		creds: Credentials{
			Token:   strings.TrimSpace(creds.Token),
			UserKey: strings.TrimSpace(creds.UserKey),
			Device:  creds.Device,
		},
		client:   client,
		timeout:  timeout,
		endpoint: endpoint,
		logger:   logger,
		observer: o.observer,
	}, nil
}

// Device returns the device the client restricts delivery to, if any.
func (c *Client) Device() string {
	return c.creds.Device
}

// SendMessage posts one notification and returns the decoded response.
//
// A non-2xx answer or a failed round trip is returned as *APIError. A 2xx
// answer whose status is not 1 is returned as a Result with a nil error;
// callers must check Result.OK.
func (c *Client) SendMessage(ctx context.Context, message string, opts Options) (*Result, error) {
	if c == nil || c.client == nil {
		return nil, fmt.Errorf("%w: client is not initialized", ErrConfiguration)
	}
	if message == "" {
		return nil, ErrEmptyMessage
	}

	form := encodeForm(c.creds, message, opts)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	response, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetFormDataFromValues(form).
		Post(c.endpoint)
	if err != nil {
		c.observe(OutcomeTransportError, start)
		return nil, &APIError{Cause: err}
	}

	statusCode := response.StatusCode()
	body := response.Body()

	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		c.observe(OutcomeRejected, start)
		return nil, newRejection(statusCode, body)
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		c.observe(OutcomeTransportError, start)
		return nil, &APIError{
			StatusCode: statusCode,
			Body:       strings.TrimSpace(string(body)),
			Cause:      fmt.Errorf("decode response: %w", err),
		}
	}

	if !result.OK() {
		c.observe(OutcomeLogicalFailure, start)
		return &result, nil
	}

	c.observe(OutcomeSent, start)
	c.logger.Debug("pushover message accepted",
		zap.String("request", result.Request),
		zap.Duration("duration", time.Since(start)),
	)

	return &result, nil
}

func (c *Client) observe(outcome string, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveSend(outcome, time.Since(start))
}

func newRejection(statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Body:       strings.TrimSpace(string(body)),
	}

	var payload Result
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Errors = payload.Errors
		apiErr.Request = payload.Request
	}

	return apiErr
}
