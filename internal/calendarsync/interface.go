package calendarsync

import (
	"context"

	"scheduling-assistant/pkg/gcalendar"
)

// Calendar is the remote calendar the mirror writes to. *gcalendar.Client satisfies it.
type Calendar interface {
	UpsertEvent(ctx context.Context, req gcalendar.EventRequest) (*gcalendar.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}
