// Package sl holds small helpers for log/slog attributes.
package sl

import "log/slog"

// Err wraps err into an "error" attribute. A nil error is logged as empty.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}

	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}
