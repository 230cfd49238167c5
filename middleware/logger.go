package middleware

import (
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dzonerzy/go-climb/internal/pool"
)

// RequestIDKey is the context metadata key holding the per-dispatch request ID.
const RequestIDKey = "logger.request_id"

// LogFileConfig enables a rotating log file next to the console writer.
type LogFileConfig struct {
	Filename   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// WithLogFile also writes records to a rotating file.
func WithLogFile(file LogFileConfig) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.LogFile = &file
	}
}

// RequestInfo describes one dispatch
type RequestInfo struct {
	ID        string
	Command   string
	Args      []string
	StartTime time.Time
	Duration  time.Duration
	Output    int // bytes of handler output
	Error     error
}

var requestInfoPool = pool.NewPoolWithReset(
	func() *RequestInfo {
		return &RequestInfo{Args: make([]string, 0, 4)}
	},
	func(info *RequestInfo) {
		info.ID = ""
		info.Command = ""
		info.Args = info.Args[:0]
		info.StartTime = time.Time{}
		info.Duration = 0
		info.Output = 0
		info.Error = nil
	},
)

// jsonRecord is the JSON line layout
type jsonRecord struct {
	Timestamp  string   `json:"timestamp"`
	Level      string   `json:"level"`
	RequestID  string   `json:"request_id"`
	Command    string   `json:"command"`
	DurationMS *int64   `json:"duration_ms,omitempty"`
	Args       []string `json:"args,omitempty"`
	Output     int      `json:"output_bytes,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Logger creates a middleware that logs every dispatch
func Logger(options ...MiddlewareOption) Middleware {
	config := newConfig(options)
	writer := logWriter(config)

	return func(next ActionFunc) ActionFunc {
		return func(ctx Context) (string, error) {
			if config.LogLevel == LogLevelNone || writer == nil {
				return next(ctx)
			}

			info := requestInfoPool.Get()
			defer requestInfoPool.Put(info)

			info.ID = uuid.NewString()
			info.Command = getCommandName(ctx)
			info.Args = append(info.Args, ctx.Args()...)
			info.StartTime = time.Now()
			ctx.Set(RequestIDKey, info.ID)

			if config.LogLevel >= LogLevelDebug {
				writeRecord(writer, config, info, "START")
			}

			out, err := next(ctx)

			info.Duration = time.Since(info.StartTime)
			info.Output = len(out)
			info.Error = err
			if err != nil {
				writeRecord(writer, config, info, "ERROR")
			} else if config.LogLevel >= LogLevelInfo {
				writeRecord(writer, config, info, "SUCCESS")
			}

			return out, err
		}
	}
}

// logWriter combines the console writer and the optional rotating file.
func logWriter(config *MiddlewareConfig) io.Writer {
	var writers []io.Writer
	if config.LogWriter != nil {
		writers = append(writers, config.LogWriter)
	}
	if f := config.LogFile; f != nil && f.Filename != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   f.Filename,
			MaxSize:    f.MaxSize,
			MaxBackups: f.MaxBackups,
			MaxAge:     f.MaxAge,
			Compress:   f.Compress,
		})
	}
	switch len(writers) {
	case 0:
		return nil
	case 1:
		return writers[0]
	default:
		return io.MultiWriter(writers...)
	}
}

func writeRecord(w io.Writer, config *MiddlewareConfig, info *RequestInfo, level string) {
	switch config.LogFormat {
	case LogFormatJSON:
		writeJSONLog(w, info, level, config)
	default:
		writeTextLog(w, info, level, config)
	}
}

func writeTextLog(w io.Writer, info *RequestInfo, level string, config *MiddlewareConfig) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	buf.WriteByte('[')
	buf.WriteString(info.StartTime.Format("2006-01-02 15:04:05"))
	buf.WriteString("] ")
	buf.WriteString(level)
	buf.WriteString(" id=")
	buf.WriteString(info.ID)
	buf.WriteString(" command=")
	buf.WriteString(info.Command)

	if info.Duration > 0 {
		buf.WriteString(" duration=")
		buf.WriteString(info.Duration.String())
	}
	if config.IncludeArgs && len(info.Args) > 0 {
		buf.WriteString(" args=")
		for i, arg := range info.Args {
			if i > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(strconv.Quote(arg))
		}
	}
	if info.Output > 0 {
		buf.WriteString(" output_bytes=")
		buf.WriteString(strconv.Itoa(info.Output))
	}
	if info.Error != nil {
		buf.WriteString(" error=")
		buf.WriteString(strconv.Quote(info.Error.Error()))
	}
	buf.WriteByte('\n')

	//nolint:errcheck // Logging is best-effort; ignore write errors.
	w.Write(buf.Bytes())
}

func writeJSONLog(w io.Writer, info *RequestInfo, level string, config *MiddlewareConfig) {
	rec := jsonRecord{
		Timestamp: info.StartTime.Format(time.RFC3339),
		Level:     level,
		RequestID: info.ID,
		Command:   info.Command,
		Output:    info.Output,
	}
	if info.Duration > 0 {
		ms := info.Duration.Milliseconds()
		rec.DurationMS = &ms
	}
	if config.IncludeArgs && len(info.Args) > 0 {
		rec.Args = info.Args
	}
	if info.Error != nil {
		rec.Error = info.Error.Error()
	}

	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)
	if err := json.NewEncoder(buf).Encode(rec); err != nil {
		return
	}
	//nolint:errcheck // Logging is best-effort; ignore write errors.
	w.Write(buf.Bytes())
}

// Convenience constructors

// DebugLogger logs dispatch start as well as completion
func DebugLogger() Middleware {
	return Logger(WithLogLevel(LogLevelDebug))
}

// ErrorLogger logs only failed dispatches
func ErrorLogger() Middleware {
	return Logger(WithLogLevel(LogLevelError))
}

// JSONLogger logs JSON lines to w
func JSONLogger(w io.Writer) Middleware {
	return Logger(WithLogFormat(LogFormatJSON), WithWriter(w))
}
