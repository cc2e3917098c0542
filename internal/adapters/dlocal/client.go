// Package dlocal builds signed requests for the dLocal KYC, Payments and Payouts APIs and dispatches them
package dlocal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"kycdesk/internal/core/canon"
	"kycdesk/internal/platform/config"
	perr "kycdesk/internal/platform/errors"
	"kycdesk/internal/platform/logger"

	"github.com/google/uuid"
)

const (
	defaultTimeout = 30 * time.Second
	defaultMaxBody = 1 << 20
	messageLimit   = 2048
)

// Ledger receives every completed call, cancelled calls excluded
type Ledger interface {
	Record(ctx context.Context, res CallResult)
}

// Options configures the Client
type Options struct {
	// Timeout bounds the whole exchange and must be positive
	Timeout time.Duration

	// Transport overrides the round tripper, nil uses http.DefaultTransport
	Transport http.RoundTripper

	// MaxBody caps how much of a response is read
	MaxBody int64

	Ledger Ledger
}

// OptionsFromEnv reads TIMEOUT and MAX_BODY_BYTES
func OptionsFromEnv(cfg config.Conf) Options {
	return Options{
		Timeout: cfg.MayDuration("TIMEOUT", defaultTimeout),
		MaxBody: int64(cfg.MayInt("MAX_BODY_BYTES", defaultMaxBody)),
	}
}

// Client performs the HTTP exchange and classifies the outcome
// it never retries, the remote idempotency rules are unknown for payouts
type Client struct {
	http    *http.Client
	ledger  Ledger
	maxBody int64
	log     logger.Logger
	now     func() time.Time
	newID   func() string
}

// NewClient returns a Client, a missing or non positive timeout is a configuration error
func NewClient(o Options) (*Client, error) {
	if o.Timeout <= 0 {
		return nil, perr.InvalidArgf("dlocal timeout must be positive, got %s", o.Timeout)
	}
	if o.MaxBody <= 0 {
		o.MaxBody = defaultMaxBody
	}
	return &Client{
		http:    &http.Client{Timeout: o.Timeout, Transport: o.Transport},
		ledger:  o.Ledger,
		maxBody: o.MaxBody,
		log:     *logger.Named("dlocal"),
		now:     time.Now,
		newID:   uuid.NewString,
	}, nil
}

// SetLedger swaps the ledger, used during wiring once the store is open
func (c *Client) SetLedger(l Ledger) { c.ledger = l }

// Dispatch sends req and classifies the outcome
// cancelling ctx aborts the call and yields a cancelled TransportFailure
func (c *Client) Dispatch(ctx context.Context, req SignedRequest) CallResult {
	res := CallResult{Meta: Meta{
		CallID:      c.newID(),
		Op:          req.op,
		Family:      req.family,
		Env:         req.env,
		Method:      req.method,
		URL:         req.url,
		XDate:       req.xDate,
		Signature:   req.signature,
		HeadersSent: req.RedactedHeaders(),
		BodySent:    req.BodySent(),
	}}

	start := c.now()
	res = c.exchange(ctx, req, res)
	res.Meta.Latency = c.now().Sub(start)

	ev := c.log.Debug().
		Str("call_id", res.Meta.CallID).
		Str("op", string(req.op)).
		Str("method", req.method).
		Str("path", pathOf(req.url)).
		Str("outcome", string(res.Kind)).
		Int("status", res.StatusCode).
		Dur("latency", res.Meta.Latency)
	if res.ErrorCode != "" {
		ev = ev.Str("error_code", res.ErrorCode)
	}
	ev.Msg("dlocal call")

	if c.ledger != nil && !res.Cancelled {
		c.ledger.Record(ctx, res)
	}
	return res
}

func (c *Client) exchange(ctx context.Context, req SignedRequest, res CallResult) CallResult {
	hr, err := http.NewRequestWithContext(ctx, req.method, req.url, bytes.NewReader(req.body))
	if err != nil {
		return transport(ctx, res, err)
	}
	hr.Header = req.httpHeader()

	resp, err := c.http.Do(hr)
	if err != nil {
		return transport(ctx, res, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("op", string(req.op)).Msg("dlocal close body failed")
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return transport(ctx, res, err)
	}
	if int64(len(raw)) > c.maxBody {
		return transport(ctx, res, perr.Newf(perr.ErrorCodeTransport, "response exceeds %d bytes", c.maxBody))
	}

	res.StatusCode = resp.StatusCode
	res.Meta.ResponseHeaders = resp.Header.Clone()
	return classify(res, raw)
}

// transport builds a TransportFailure, cancelled only when the caller gave up
func transport(ctx context.Context, res CallResult, err error) CallResult {
	res.Kind = KindTransportFailure
	res.Cancelled = errors.Is(ctx.Err(), context.Canceled)
	res.Cause = perr.Wrap(err, perr.ErrorCodeTransport, "dlocal transport failure")
	return res
}

// classify maps a complete HTTP response to success or api error
func classify(res CallResult, raw []byte) CallResult {
	trimmed := bytes.TrimSpace(raw)
	ok2xx := res.StatusCode >= 200 && res.StatusCode < 300

	var parsed any
	isJSON := len(trimmed) > 0 && json.Unmarshal(trimmed, &parsed) == nil

	switch {
	case ok2xx && len(trimmed) == 0:
		res.Kind = KindSuccess
		res.Body = json.RawMessage(`{}`)
		return res
	case ok2xx && isJSON:
		res.Body = compact(trimmed)
		if code, msg, embedded := embeddedError(parsed, trimmed); embedded {
			res.Kind = KindAPIError
			res.ErrorCode, res.Message = code, msg
			return res
		}
		res.Kind = KindSuccess
		return res
	}

	res.Kind = KindAPIError
	if isJSON {
		res.Body = compact(trimmed)
		res.ErrorCode, res.Message = errorFields(parsed)
	} else {
		res.Body = rawBody(trimmed)
	}
	if res.Message == "" {
		res.Message = truncate(string(trimmed), messageLimit)
	}
	if res.Message == "" {
		res.Message = http.StatusText(res.StatusCode)
	}
	if ok2xx && !isJSON {
		res.Message = "unparseable response: " + res.Message
	}
	return res
}

// embeddedError spots a 2xx body shaped like the remote error object
// any non zero code is an error unless the body also names a resource id
func embeddedError(v any, raw []byte) (code, message string, ok bool) {
	m, isObj := v.(map[string]any)
	if !isObj {
		return "", "", false
	}
	code, message = errorFields(m)
	if code == "" || code == "0" {
		return "", "", false
	}
	if _, hasID := m["id"]; hasID {
		return "", "", false
	}
	if message == "" {
		message = truncate(string(raw), messageLimit)
	}
	return code, message, true
}

// errorFields reads code and message, description stands in for a missing message
func errorFields(v any) (code, message string) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", ""
	}
	switch c := m["code"].(type) {
	case float64:
		code = strconv.FormatFloat(c, 'f', -1, 64)
	case string:
		code = strings.TrimSpace(c)
	}
	for _, k := range []string{"message", "description"} {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return code, s
		}
	}
	return code, ""
}

func compact(b []byte) json.RawMessage {
	out, err := canon.Compact(b)
	if err != nil {
		return json.RawMessage(b)
	}
	return out
}

// rawBody wraps a non JSON response so it can still be shown and stored as JSON
func rawBody(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	out, err := canon.Marshal(map[string]string{"raw": truncate(string(b), messageLimit)})
	if err != nil {
		return nil
	}
	return out
}

// truncate cuts s to at most n bytes without splitting a rune
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func pathOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Path
}
