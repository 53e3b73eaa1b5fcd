package logger

import "go.uber.org/zap"

// Log starts as a no-op so packages can log before Init runs (mainly tests).
var Log = zap.NewNop()

func Init() {
	Log = zap.Must(zap.NewProduction())
}

func Sugar() *zap.SugaredLogger {
	return Log.Sugar()
}
