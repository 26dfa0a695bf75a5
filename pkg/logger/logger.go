// Package logger owns the process-wide logr.Logger: a zap core wrapped by
// zapr, configured once per run and handed down through contexts.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"

	"github.com/oakwood-commons/tabc/pkg/settings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type loggerContextKey struct{}

// Structured field keys shared by every command.
const (
	RootCommandKey = "root_command"
	SubCommandKey  = "sub_command"
	CommitKey      = "commit"
	VersionKey     = "version"
	BuildTimeKey   = "build_time"
	GoVersionKey   = "go_version"
	TimeStampKey   = "timestamp"
	MessageKey     = "message"
	SessionKey     = "session"
	BackendKey     = "backend"
	CatalogKey     = "catalog"
)

// Encodings accepted in Options.Format.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

var (
	once sync.Once

	// zapBase is kept for Sync.
	zapBase *zap.Logger
	global  *logr.Logger

	noop = logr.Discard()
)

// Options controls where and how verbosely the global logger writes.
type Options struct {
	// Level is the minimum zap level; negative values enable V(n) output.
	Level int8
	// Format is FormatJSON (default) or FormatConsole.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// ValidFormat reports whether f names a known encoding. Empty means JSON.
func ValidFormat(f string) bool {
	switch f {
	case "", FormatJSON, FormatConsole:
		return true
	}
	return false
}

// Setup builds the global logger from opts. Only the first call has an
// effect; later calls return the logger it built.
func Setup(opts Options) *logr.Logger {
	once.Do(func() {
		zapBase = zap.New(newCore(opts),
			zap.AddCaller(),
			zap.AddStacktrace(zap.ErrorLevel),
			zap.WithFatalHook(zapcore.WriteThenPanic),
		)
		l := zapr.NewLogger(zapBase)
		global = &l
	})
	if global == nil {
		return &noop
	}
	return global
}

func newCore(opts Options) zapcore.Core {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.TimeKey = TimeStampKey
	encoderCfg.MessageKey = MessageKey

	var enc zapcore.Encoder
	if opts.Format == FormatConsole {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encoderCfg)
	}

	return zapcore.NewCore(
		enc,
		zapcore.Lock(zapcore.AddSync(out)),
		zap.NewAtomicLevelAt(zapcore.Level(opts.Level)),
	).With(buildFields())
}

// buildFields stamps every entry with the binary's build metadata.
func buildFields() []zapcore.Field {
	goVersion := "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		goVersion = info.GoVersion
	}
	v := settings.VersionInformation
	return []zapcore.Field{
		zap.String(CommitKey, v.Commit),
		zap.String(VersionKey, v.BuildVersion),
		zap.String(BuildTimeKey, v.BuildTime),
		zap.String(GoVersionKey, goVersion),
	}
}

// OpenFile opens path for appending log lines. The caller closes the file
// after Sync.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// WithLogger attaches log to ctx. Attaching the logger already present
// returns ctx unchanged.
func WithLogger(ctx context.Context, log *logr.Logger) context.Context {
	if lp, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok && lp == log {
		return ctx
	}
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext returns the logger attached to ctx, else the global logger,
// else a logger that discards everything.
func FromContext(ctx context.Context) *logr.Logger {
	if log, ok := ctx.Value(loggerContextKey{}).(*logr.Logger); ok {
		return log
	}
	if global != nil {
		return global
	}
	return &noop
}

// Sync flushes buffered entries. Call it before the process exits.
func Sync() {
	if zapBase == nil {
		return
	}
	if err := zapBase.Sync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintf(os.Stderr, "WARNING: failed to sync zap logger: %v\n", err)
	}
}

// isIgnorableSyncError matches the errors Sync returns on pipes and
// terminals. Windows consoles report ERROR_INVALID_HANDLE inside an
// *os.PathError, which only a string match catches.
func isIgnorableSyncError(err error) bool {
	if errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.EIO) || errors.Is(err, syscall.EBADF) {
		return true
	}
	return strings.Contains(err.Error(), "The handle is invalid")
}

// GetNoopLogger returns a logger that discards everything.
func GetNoopLogger() *logr.Logger {
	return &noop
}

// WithValues returns a copy of lgr carrying keysAndValues.
func WithValues(lgr *logr.Logger, keysAndValues ...any) *logr.Logger {
	nlgr := lgr.WithValues(keysAndValues...)
	return &nlgr
}
