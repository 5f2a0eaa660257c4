package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrStoreFailure wraps every error the store reports. Callers cannot tell a
// constraint violation from a lost connection, only that the call failed.
var ErrStoreFailure = errors.New("store failure")

var meter = otel.Meter("store")

var _ Querier = (*Gateway)(nil)

type Gateway struct {
	db      *sqlx.DB
	q       sqlx.ExtContext
	logger  *slog.Logger
	calls   metric.Int64Counter
	latency metric.Float64Histogram
}

func NewGateway(db *sqlx.DB, logger *slog.Logger) *Gateway {
	calls, _ := meter.Int64Counter("store.calls",
		metric.WithDescription("Store round-trips by operation and outcome"))
	latency, _ := meter.Float64Histogram("store.call.duration",
		metric.WithDescription("Store round-trip latency"),
		metric.WithUnit("s"))

	return &Gateway{
		db:      db,
		q:       db,
		logger:  logger,
		calls:   calls,
		latency: latency,
	}
}

func (g *Gateway) Ping(ctx context.Context) error {
	return g.db.PingContext(ctx)
}

func (g *Gateway) InTx(ctx context.Context, fn func(Querier) error) error {
	if _, ok := g.q.(*sqlx.Tx); ok {
		return fn(g)
	}

	start := time.Now()
	tx, err := g.db.BeginTxx(ctx, nil)
	if err != nil {
		return g.fail(ctx, "begin", start, err)
	}
	defer func() { _ = tx.Rollback() }()

	txg := *g
	txg.q = tx
	if err := fn(&txg); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return g.fail(ctx, "commit", start, err)
	}

	g.track(ctx, "tx", start, 0, nil)
	return nil
}

func getOne[R any](ctx context.Context, g *Gateway, op, query string, args ...any) (*R, error) {
	start := time.Now()

	var r R
	err := sqlx.GetContext(ctx, g.q, &r, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		g.track(ctx, op, start, 0, nil)
		return nil, nil
	}
	if err != nil {
		return nil, g.fail(ctx, op, start, err)
	}

	g.track(ctx, op, start, 1, nil)
	return &r, nil
}

func selectAll[R any](ctx context.Context, g *Gateway, op, query string, args ...any) ([]R, error) {
	start := time.Now()

	var rs []R
	if err := sqlx.SelectContext(ctx, g.q, &rs, query, args...); err != nil {
		return nil, g.fail(ctx, op, start, err)
	}

	g.track(ctx, op, start, len(rs), nil)
	return rs, nil
}

func (g *Gateway) exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	start := time.Now()

	result, err := g.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, g.fail(ctx, op, start, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, g.fail(ctx, op, start, err)
	}

	g.track(ctx, op, start, int(n), nil)
	return n, nil
}

func (g *Gateway) fail(ctx context.Context, op string, start time.Time, err error) error {
	err = fmt.Errorf("%s: %w: %w", op, ErrStoreFailure, err)
	g.track(ctx, op, start, 0, err)
	return err
}

// track logs and counts one round-trip. Only the operation name and shape of
// the result are recorded, never row contents.
func (g *Gateway) track(ctx context.Context, op string, start time.Time, rows int, err error) {
	elapsed := time.Since(start)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	)
	g.calls.Add(ctx, 1, attrs)
	g.latency.Record(ctx, elapsed.Seconds(), attrs)

	if err != nil {
		g.logger.ErrorContext(ctx, "store call failed", "op", op, "duration", elapsed, "error", err)
		return
	}
	g.logger.InfoContext(ctx, "store call", "op", op, "duration", elapsed, "rows", rows)
}
