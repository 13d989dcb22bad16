package logsvc

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rogerjeasy/letusconnect/core"
)

// NewZapLogger builds the console logger. Unknown levels fall back to info.
func NewZapLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	zl, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return zl, nil
}

// ZapLogger is a core.Logger printing through zap only, e.g. for the admin CLI and tests.
type ZapLogger struct {
	zl *zap.SugaredLogger
}

var _ core.Logger = (*ZapLogger)(nil)

func NewLogger(zl *zap.Logger) *ZapLogger {
	return &ZapLogger{zl: zl.Sugar()}
}

func (l ZapLogger) Debug(msg string, args ...interface{}) { l.zl.Debugw(msg, fields(args)...) }
func (l ZapLogger) Info(msg string, args ...interface{})  { l.zl.Infow(msg, fields(args)...) }
func (l ZapLogger) Warn(msg string, args ...interface{})  { l.zl.Warnw(msg, fields(args)...) }
func (l ZapLogger) Error(msg string, args ...interface{}) { l.zl.Errorw(msg, fields(args)...) }
func (l ZapLogger) Fatal(msg string, args ...interface{}) { l.zl.Fatalw(msg, fields(args)...) }

// fields turns the loosely typed logger args into zap key/value pairs.
func fields(args []interface{}) []interface{} {
	kvs := make([]interface{}, 0, len(args)*2)
	var nErr, nArg int
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
		case error:
			key := "error"
			if nErr > 0 {
				key = fmt.Sprintf("error%d", nErr)
			}
			nErr++
			kvs = append(kvs, zap.NamedError(key, v))
		case map[string]interface{}:
			for k, val := range v {
				kvs = append(kvs, k, val)
			}
		default:
			if usr, ok := asUser(v); ok {
				kvs = append(kvs, "user", usr.Username, "userID", usr.ID)
				continue
			}
			kvs = append(kvs, fmt.Sprintf("arg%d", nArg), v)
			nArg++
		}
	}
	return kvs
}
