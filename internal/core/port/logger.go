package port

// Fields carries structured data for a log line.
type Fields map[string]interface{}

// LoggerPort keeps the core independent of a concrete logging backend.
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	// Error logs msg together with err, which may be nil.
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)

	// WithFields returns a logger that adds fields to every line.
	WithFields(fields Fields) LoggerPort
}
