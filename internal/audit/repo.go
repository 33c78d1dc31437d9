// Package audit keeps a local record of the status changes this service
// submitted. The marketplace API stays the owner of the orders themselves.
package audit

import (
	"context"
	"time"

	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Entry struct {
	EventID    string        `json:"eventId"`
	OrderID    string        `json:"orderId"`
	From       market.Status `json:"from"`
	To         market.Status `json:"to"`
	Role       market.Role   `json:"role"`
	ActorID    string        `json:"actorId"`
	TraceID    string        `json:"traceId,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}

const schema = `
CREATE TABLE IF NOT EXISTS order_status_audit (
	event_id    TEXT PRIMARY KEY,
	order_id    TEXT NOT NULL,
	from_status TEXT NOT NULL,
	to_status   TEXT NOT NULL,
	role        TEXT NOT NULL,
	actor_id    TEXT NOT NULL,
	trace_id    TEXT NOT NULL DEFAULT '',
	occurred_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS order_status_audit_order_idx ON order_status_audit (order_id, occurred_at);
`

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, schema)
	return err
}

// Record is idempotent on the event id; inserted is false for a replay.
func (r *Repo) Record(ctx context.Context, e Entry) (inserted bool, err error) {
	ct, err := r.DB.Exec(ctx, `
		INSERT INTO order_status_audit(event_id, order_id, from_status, to_status, role, actor_id, trace_id, occurred_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (event_id) DO NOTHING`,
		e.EventID, e.OrderID, string(e.From), string(e.To), string(e.Role), e.ActorID, e.TraceID, e.OccurredAt)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

// History returns an order's recorded changes, oldest first.
func (r *Repo) History(ctx context.Context, orderID string) ([]Entry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT event_id, order_id, from_status, to_status, role, actor_id, trace_id, occurred_at
		FROM order_status_audit WHERE order_id=$1 ORDER BY occurred_at`, orderID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Entry, error) {
		var e Entry
		var from, to, role string
		err := row.Scan(&e.EventID, &e.OrderID, &from, &to, &role, &e.ActorID, &e.TraceID, &e.OccurredAt)
		e.From, e.To, e.Role = market.Status(from), market.Status(to), market.Role(role)
		return e, err
	})
}
