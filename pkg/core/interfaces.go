package core

// Logger is the leveled logging surface used by the renderer and integrators.
// Loggers created by pkg/log satisfy it.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Noticef(format string, args ...interface{})
	Warningf(format string, args ...interface{})
}
