package repo

import (
	"context"
	_ "embed"
	"fmt"
	"math"

	"kycdesk/internal/modkit/repokit"
	"kycdesk/internal/services/mirror/domain"

	"github.com/google/uuid"
)

//go:embed ledger.sql
var ledgerSQL string

// LedgerTable is the ClickHouse table holding one row per outbound call
const LedgerTable = "dlocal_calls"

// CH is the ClickHouse call ledger
type CH struct {
	ch repokit.Clickhouse
}

// NewCH constructs the ledger repo
func NewCH(ch repokit.Clickhouse) *CH { return &CH{ch: ch} }

// MigrateLedger creates the ledger table when missing
func (s *CH) MigrateLedger(ctx context.Context) error {
	rows, err := s.ch.Query(ctx, ledgerSQL)
	if err != nil {
		return fmt.Errorf("ch: migrate %s: %w", LedgerTable, err)
	}
	rows.Close()
	return nil
}

// InsertCalls appends ledger rows in column order
func (s *CH) InsertCalls(ctx context.Context, xs []domain.CallRow) error {
	if len(xs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(xs))
	for _, c := range xs {
		id, err := uuid.Parse(c.CallID)
		if err != nil {
			id = uuid.Nil
		}
		rows = append(rows, []any{
			id,
			c.At.UTC(),
			c.Family,
			c.Operation,
			c.Environment,
			c.Method,
			c.Path,
			c.Outcome,
			clampU16(c.StatusCode),
			c.ErrorCode,
			clampU32(c.LatencyMs),
		})
	}
	return s.ch.Insert(ctx, LedgerTable, rows)
}

// OutcomeCount is one bucket of CountByOutcome
type OutcomeCount struct {
	Operation string `json:"operation"`
	Outcome   string `json:"outcome"`
	Calls     uint64 `json:"calls"`
}

// CountByOutcome summarizes the ledger per operation and outcome
func (s *CH) CountByOutcome(ctx context.Context) ([]OutcomeCount, error) {
	rows, err := s.ch.Query(ctx, `
		SELECT operation, outcome, count() AS calls
		FROM `+LedgerTable+`
		GROUP BY operation, outcome
		ORDER BY operation, outcome`)
	if err != nil {
		return nil, fmt.Errorf("ch: count outcomes: %w", err)
	}
	defer rows.Close()

	out := []OutcomeCount{}
	for rows.Next() {
		var oc OutcomeCount
		if err := rows.Scan(&oc.Operation, &oc.Outcome, &oc.Calls); err != nil {
			return nil, fmt.Errorf("ch: scan outcome: %w", err)
		}
		out = append(out, oc)
	}
	return out, rows.Err()
}

func clampU16(n int) uint16 {
	if n < 0 {
		return 0
	}
	if n > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(n)
}

func clampU32(n int64) uint32 {
	if n < 0 {
		return 0
	}
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}
