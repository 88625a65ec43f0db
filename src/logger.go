package src

// Logger is the subset of *zap.SugaredLogger the service layer relies on.
type Logger interface {
	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)
	Info(args ...any)
	Error(args ...any)
	Sync() error
}
