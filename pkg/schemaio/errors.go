package schemaio

// ImportError describes a schema document the importer refused. It is
// always recoverable: the caller surfaces the reason and keeps the current
// session untouched.
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return "schemaio: " + e.Reason + ": " + e.Err.Error()
	}
	return "schemaio: " + e.Reason
}

func (e *ImportError) Unwrap() error { return e.Err }

func importError(reason string, err error) *ImportError {
	return &ImportError{Reason: reason, Err: err}
}
