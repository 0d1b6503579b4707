package mempool

import "go.uber.org/zap"

// defaultLogger builds the development-mode logger used when a node doesn't
// inject one of its own: console-encoded, no caller or stacktrace noise.
func defaultLogger() *zap.Logger {
	cc := zap.NewDevelopmentConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.Encoding = "console"

	log, err := cc.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log.With(zap.String("module", "mempool"))
}
