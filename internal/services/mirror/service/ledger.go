package service

import (
	"context"
	"net/url"
	"time"

	"kycdesk/internal/adapters/dlocal"
	"kycdesk/internal/platform/logger"
	dom "kycdesk/internal/services/mirror/domain"
)

// callWriter is the slice of the ClickHouse repo the ledger needs
type callWriter interface {
	InsertCalls(ctx context.Context, xs []dom.CallRow) error
}

// Ledger appends one row per completed outbound call
// failures are logged and never reach the caller
type Ledger struct {
	w       callWriter
	timeout time.Duration
	now     func() time.Time
}

var _ dlocal.Ledger = (*Ledger)(nil)

// NewLedger constructs a Ledger, timeout bounds each insert
func NewLedger(w callWriter, timeout time.Duration) *Ledger {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Ledger{w: w, timeout: timeout, now: time.Now}
}

// Row renders res as a ledger row, it carries no keys, headers or bodies
func Row(res dlocal.CallResult, finished time.Time) dom.CallRow {
	path := ""
	if u, err := url.Parse(res.Meta.URL); err == nil {
		path = u.Path
	}
	return dom.CallRow{
		CallID:      res.Meta.CallID,
		At:          finished.Add(-res.Meta.Latency).UTC(),
		Family:      string(res.Meta.Family),
		Operation:   string(res.Meta.Op),
		Environment: string(res.Meta.Env),
		Method:      res.Meta.Method,
		Path:        path,
		Outcome:     string(res.Kind),
		StatusCode:  res.StatusCode,
		ErrorCode:   res.ErrorCode,
		LatencyMs:   res.Meta.Latency.Milliseconds(),
	}
}

// Record implements dlocal.Ledger
func (l *Ledger) Record(ctx context.Context, res dlocal.CallResult) {
	if l == nil || l.w == nil {
		return
	}
	row := Row(res, l.now())

	// the row describes a call that already happened, so it outlives the request
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
	defer cancel()
	if err := l.w.InsertCalls(wctx, []dom.CallRow{row}); err != nil {
		logger.C(ctx).Warn().Err(err).Str("call_id", row.CallID).Str("op", row.Operation).Msg("call ledger insert failed")
	}
}
