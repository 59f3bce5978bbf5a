package logger

import "go.uber.org/zap"

// New returns the production logger used by the binary.
func New() *zap.Logger {
	return zap.Must(zap.NewProduction())
}
