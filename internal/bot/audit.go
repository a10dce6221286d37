package bot

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/VoxDroid/stovbot/internal/events"
	"github.com/VoxDroid/stovbot/internal/store"
)

// EventRecorder persists audit events.
type EventRecorder interface {
	RecordEvent(e *store.EventRecord) error
}

// Record drains ch into rec until ch is closed or ctx is done. Load events
// describe startup state and are skipped. Write failures are logged and do
// not stop the sink.
func Record(ctx context.Context, ch <-chan events.Event, rec EventRecorder, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return nil
			}
			logger.Debug("event", zap.Stringer("event", ev))
			if ev.Kind.IsLoad() {
				continue
			}
			if err := rec.RecordEvent(toRecord(ev)); err != nil {
				logger.Error("record event failed", zap.String("id", ev.ID), zap.Error(err))
			}
		}
	}
}

func toRecord(ev events.Event) *store.EventRecord {
	return &store.EventRecord{
		ID:           ev.ID,
		CreatedAt:    ev.Time,
		Kind:         string(ev.Kind),
		Subject:      ev.Subject,
		OldValue:     nullString(ev.Old),
		NewValue:     nullString(ev.New),
		Actor:        nullString(ev.User),
		PersistError: nullString(ev.PersistError),
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
