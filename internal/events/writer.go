package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"kanban/internal/domain"
)

const DefaultActor = "local-user"

type actorKey struct{}

// WithActor tags ctx with the id of whoever performs the mutation.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorFrom returns the actor set by WithActor, or DefaultActor.
func ActorFrom(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok && v != "" {
		return v
	}
	return DefaultActor
}

type Writer struct {
	DB  *sqlx.DB
	Now func() time.Time
}

type EventPayload map[string]any

// Record appends one event attributed to the actor in ctx.
func (w Writer) Record(ctx context.Context, evtType, entityKind, entityID string, payload map[string]any) error {
	return w.Append(ctx, evtType, entityKind, entityID, ActorFrom(ctx), payload)
}

func (w Writer) Append(ctx context.Context, evtType, entityKind, entityID, actorID string, payload EventPayload) error {
	if w.Now == nil {
		w.Now = time.Now
	}
	ts := w.Now().UTC().Format(time.RFC3339)
	if payload == nil {
		payload = EventPayload{}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}
	_, err = w.DB.ExecContext(ctx, `INSERT INTO events(ts,type,entity_kind,entity_id,actor_id,payload_json) VALUES (?,?,?,?,?,?)`,
		ts, evtType, entityKind, nullable(entityID), actorID, string(data))
	return err
}

type Filter struct {
	Type       string
	EntityKind string
	EntityID   string
	Limit      int
}

// Latest returns matching events, newest first.
func (w Writer) Latest(ctx context.Context, f Filter) ([]domain.Event, error) {
	var where []string
	var args []any
	if f.Type != "" {
		where = append(where, "type=?")
		args = append(args, f.Type)
	}
	if f.EntityKind != "" {
		where = append(where, "entity_kind=?")
		args = append(args, f.EntityKind)
	}
	if f.EntityID != "" {
		where = append(where, "entity_id=?")
		args = append(args, f.EntityID)
	}
	q := `SELECT id, ts, type, entity_kind, COALESCE(entity_id,'') AS entity_id, actor_id, payload_json FROM events`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	q += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)
	out := []domain.Event{}
	if err := w.DB.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
