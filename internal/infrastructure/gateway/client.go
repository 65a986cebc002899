package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	apporder "github.com/RahulSharma2309/sharma-ecommerce-go/internal/application/order"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/observability"
)

const defaultTimeout = 5 * time.Second

// client is the shared HTTP plumbing for the remote gateways. Every call
// is counted and timed under the external-request metrics, and any
// transport failure or unexpected status surfaces as the coordinator's
// upstream-unavailable error so the saga can refuse cleanly.
type client struct {
	base     string
	service  string
	http     *http.Client
	counter  observability.Counter
	duration observability.Histogram
}

func newClient(base, service string, timeout time.Duration, tel observability.Observability) *client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if tel == nil {
		tel = observability.Nop()
	}
	return &client{
		base:     base,
		service:  service,
		http:     &http.Client{Timeout: timeout},
		counter:  tel.Metrics().Counter(observability.MExternalRequests),
		duration: tel.Metrics().Histogram(observability.MExternalRequestDuration),
	}
}

// do issues the request and decodes a 2xx body into out (out may be nil).
// Non-2xx responses are returned as *statusError with the raw body so the
// caller can translate known statuses into domain errors. op is the
// low-cardinality operation name used for metric labels.
func (c *client) do(ctx context.Context, method, path, op string, in, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, path, in, out)

	outcome := "ok"
	if err != nil {
		var se *statusError
		if errors.As(err, &se) {
			outcome = strconv.Itoa(se.code)
		} else {
			outcome = "transport_error"
		}
	}
	labels := []observability.Label{
		observability.L("service", c.service),
		observability.L("operation", op),
		observability.L("outcome", outcome),
	}
	c.counter.Add(1, labels...)
	c.duration.Observe(time.Since(start).Seconds(), labels...)
	return err
}

func (c *client) roundTrip(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("gateway: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", apporder.ErrUpstreamUnavailable, c.service, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: %s: read body: %v", apporder.ErrUpstreamUnavailable, c.service, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{code: resp.StatusCode, body: raw}
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: %s: decode body: %v", apporder.ErrUpstreamUnavailable, c.service, err)
		}
	}
	return nil
}

type statusError struct {
	code int
	body []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("gateway: unexpected status %d", e.code)
}

// decodeInto parses the error body into detail; a malformed body is
// tolerated because the status code alone already decides the mapping.
func (e *statusError) decodeInto(detail any) {
	_ = json.Unmarshal(e.body, detail)
}

// upstream wraps any status the caller did not map into a domain error.
func (c *client) upstream(e *statusError) error {
	return fmt.Errorf("%w: %s: status %d", apporder.ErrUpstreamUnavailable, c.service, e.code)
}
