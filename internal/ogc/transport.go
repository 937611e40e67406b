package ogc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/data-tales/datasources/internal/logger"
	"github.com/data-tales/datasources/internal/utils"
)

const acceptHeader = "application/xml,text/xml,*/*;q=0.9"

// TransportConfig bounds every outbound capabilities request.
type TransportConfig struct {
	ConnectTimeout time.Duration // dial + TLS handshake budget
	ReadTimeout    time.Duration // full response budget per attempt
	RetryCount     int           // retries after the first attempt
	RetryBackoff   time.Duration // initial backoff, doubles per retry
	MaxBytes       int64         // streamed response size ceiling
	UserAgent      string        // descriptive outbound identifier
}

// Transport performs bounded HTTP GETs against remote OGC endpoints.
// Requests are idempotent, so transient failures (connection errors,
// timeouts, 429/5xx) are retried with exponential backoff before a
// single typed error is surfaced to the negotiator.
type Transport struct {
	cfg    TransportConfig
	client *http.Client
	log    logger.Logger
}

func NewTransport(cfg TransportConfig, log logger.Logger) *Transport {
	return &Transport{
		cfg: cfg,
		client: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: cfg.ConnectTimeout,
				}).DialContext,
				TLSHandshakeTimeout:   cfg.ConnectTimeout,
				ResponseHeaderTimeout: cfg.ReadTimeout,
				MaxIdleConnsPerHost:   4,
				IdleConnTimeout:       90 * time.Second,
			},
		},
		log: log,
	}
}

// WithHTTPClient swaps the underlying client, e.g. for a custom TLS
// trust store.
func (t *Transport) WithHTTPClient(client *http.Client) *Transport {
	t.client = client
	return t
}

var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Fetch GETs rawURL and returns the raw payload.
func (t *Transport) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	attempts := t.cfg.RetryCount + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := t.cfg.RetryBackoff << (attempt - 1)
			t.log.Debug("retrying capabilities fetch",
				logger.String("url", rawURL),
				logger.Int("attempt", attempt+1),
				logger.Duration("backoff", wait))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, classifyNetErr(ctx.Err())
			}
		}

		body, retryable, err := t.attempt(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}
	return nil, lastErr
}

func (t *Transport) attempt(ctx context.Context, rawURL string) (body []byte, retryable bool, err error) {
	reqCtx, cancel := context.WithTimeout(ctx, t.cfg.ReadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, false, &Error{Kind: KindTransport, Msg: "failed to build request", Err: err}
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", t.cfg.UserAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, true, classifyNetErr(err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		statusErr := &Error{
			Kind: KindHTTPStatus,
			Msg:  fmt.Sprintf("unexpected status %d from %s", resp.StatusCode, rawURL),
		}
		return nil, retryableStatus[resp.StatusCode], statusErr
	}

	body, err = readCapped(resp.Body, t.cfg.MaxBytes)
	if err != nil {
		if KindOf(err) == KindPayloadTooLarge {
			return nil, false, err
		}
		return nil, true, classifyNetErr(err)
	}
	return body, false, nil
}

// readCapped streams at most max+1 bytes; crossing the cap aborts
// immediately instead of buffering a hostile or runaway response.
func readCapped(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, &Error{
			Kind: KindPayloadTooLarge,
			Msg:  fmt.Sprintf("response exceeded %d byte limit", max),
		}
	}
	return data, nil
}

// classifyNetErr maps a lower-level failure to a typed error: timeouts
// of either class become KindTimeout, everything else KindTransport.
func classifyNetErr(err error) error {
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return &Error{Kind: KindTimeout, Msg: "request timed out", Err: err}
	}
	return &Error{Kind: KindTransport, Msg: "connection failed", Err: err}
}
