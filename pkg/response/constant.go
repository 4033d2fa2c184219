package response

const (
	MessageSuccess          = "success"
	DefaultErrorMessage     = "something went wrong, please retry"
	InternalServerErrorCode = 500

	// DateFormat is the civil date layout used on the wire.
	DateFormat = "2006-01-02"
	// DateTimeFormat is the timestamp layout used on the wire.
	DateTimeFormat = "2006-01-02T15:04:05Z07:00"
)
