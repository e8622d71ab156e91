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

// EmployeeID creates a slog.Attr carrying an employee identifier.
func EmployeeID(id string) slog.Attr {
	return slog.String("employee_id", id)
}

// Fields creates a slog.Attr listing the names of rejected form fields.
func Fields(errs map[string]string) slog.Attr {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}

	return slog.Any("fields", names)
}
