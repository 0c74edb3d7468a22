package repo

import (
	"context"
	"errors"

	"textguard/internal/platform/logger"
	"textguard/internal/platform/store"
	"textguard/internal/services/screen/domain"
)

// ResultsTable is the ClickHouse table screening results land in:
//
//	create table screen_results (
//	  request_id String, tenant_id String, direction LowCardinality(String),
//	  metric Float64, reject Bool, reasons Array(Tuple(UInt32, UInt32)),
//	  created_at DateTime64(3)
//	) engine = MergeTree order by (tenant_id, created_at)
const ResultsTable = "screen_results"

// CHResults writes one row per screening call
type CHResults struct {
	ch store.Clickhouse
}

// NewCHResults wraps a ClickHouse client
func NewCHResults(ch store.Clickhouse) *CHResults {
	if ch == nil {
		panic("repo.CHResults requires a non nil Clickhouse")
	}
	return &CHResults{ch: ch}
}

// Save implements domain.ResultSink
func (r *CHResults) Save(ctx context.Context, rec domain.Record) error {
	reasons := make([][]any, 0, len(rec.Reasons))
	for _, rs := range rec.Reasons {
		reasons = append(reasons, []any{uint32(rs.Start), uint32(rs.Stop)})
	}
	return r.ch.Insert(ctx, ResultsTable, [][]any{{
		rec.RequestID,
		rec.TenantID,
		string(rec.Direction),
		rec.Metric,
		rec.Reject,
		reasons,
		rec.CreatedAt,
	}})
}

// LogResults is the sink used when ClickHouse is disabled
type LogResults struct{}

// Save implements domain.ResultSink
func (LogResults) Save(ctx context.Context, rec domain.Record) error {
	if rec.RequestID == "" {
		return errors.New("result without request id")
	}
	logger.C(ctx).Debug().
		Str("component", "results").
		Float64("metric", rec.Metric).
		Bool("reject", rec.Reject).
		Int("reasons", len(rec.Reasons)).
		Msg("screen result")
	return nil
}
