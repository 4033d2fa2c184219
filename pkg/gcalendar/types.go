package gcalendar

import "time"

// DefaultCalendarID is used when no calendar is configured.
const DefaultCalendarID = "primary"

// EventRequest describes an event mirrored under a caller-chosen ID.
// An all-day event only uses Date; a timed event uses Start and End.
type EventRequest struct {
	ID          string
	Summary     string
	Description string
	AllDay      bool
	Date        time.Time
	Start       time.Time
	End         time.Time
	Timezone    string // e.g. "Asia/Ho_Chi_Minh"
}

// Event is a simplified representation of a Google Calendar event.
type Event struct {
	ID       string
	Summary  string
	HtmlLink string
}
