package sl

import (
	"log/slog"
)

// Err creates a slog.Attr with the given error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}

	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Op returns the attribute used to name the operation a log line belongs to.
func Op(opn string) slog.Attr {
	return slog.String("op", opn)
}
