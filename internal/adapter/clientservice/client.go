// Package clientservice resolves clients through the client-service HTTP API.
package clientservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/gobank/internal/domain"
)

const (
	defaultTimeout    = 3 * time.Second
	defaultMaxRetries = 2
)

// Config configures Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client implements usecase.ClientDirectory over HTTP.
type Client struct {
	baseURL    string
	timeout    time.Duration
	maxRetries uint64
	httpClient *http.Client
	logger     zerolog.Logger
	newBackOff func() backoff.BackOff
}

// New creates a Client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    timeout,
		maxRetries: maxRetries,
		httpClient: httpClient,
		logger:     cfg.Logger,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 100 * time.Millisecond
			b.MaxInterval = time.Second
			return b
		},
	}
}

// clientResponse mirrors the client-service response body.
type clientResponse struct {
	ClientID int64 `json:"clientId"`
	Persona  struct {
		Identification string `json:"identification"`
		Name           string `json:"name"`
	} `json:"persona"`
	Active bool `json:"active"`
}

// FetchClient looks up a client by id or identification. A 404 yields
// domain.ErrClientNotFound; transport failures and 5xx responses are retried
// and finally reported as domain.ErrUpstreamUnavailable.
func (c *Client) FetchClient(ctx context.Context, ref domain.ClientRef) (*domain.ClientIdentity, error) {
	endpoint := c.endpoint(ref)

	var identity *domain.ClientIdentity
	attempt := 0
	operation := func() error {
		attempt++
		var err error
		identity, err = c.fetch(ctx, endpoint)
		if err != nil && !isTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn().
			Err(err).
			Str("client_ref", ref.String()).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("client-service lookup failed, retrying")
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), c.maxRetries), ctx)
	if err := backoff.RetryNotify(operation, b, notify); err != nil {
		if isTransient(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
		}
		return nil, err
	}

	return identity, nil
}

func (c *Client) endpoint(ref domain.ClientRef) string {
	if ref.Identification != "" {
		return c.baseURL + "/clients/identification/" + url.PathEscape(ref.Identification)
	}
	return c.baseURL + "/clients/" + strconv.FormatInt(ref.ID, 10)
}

func (c *Client) fetch(ctx context.Context, endpoint string) (*domain.ClientIdentity, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transientError{err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrClientNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, &transientError{err: fmt.Errorf("client-service returned %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("client-service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var body clientResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &transientError{err: fmt.Errorf("decode client response: %w", err)}
	}

	return &domain.ClientIdentity{
		ClientID:       body.ClientID,
		Identification: body.Persona.Identification,
		Name:           body.Persona.Name,
		Active:         body.Active,
	}, nil
}

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
