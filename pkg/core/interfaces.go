package core

// Logger interface for volume logging
type Logger interface {
	Printf(format string, args ...interface{})
}
