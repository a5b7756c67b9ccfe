package log

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/motemen/go-loghttp"
)

// Logger is the global logger instance
var Logger *slog.Logger

var level = new(slog.LevelVar)

// InitLogger initializes the global logger
// It sets the log level to Debug if CLOUDAPP_DEBUG is set
func InitLogger() {
	level.Set(slog.LevelInfo)
	if os.Getenv("CLOUDAPP_DEBUG") != "" {
		level.Set(slog.LevelDebug)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
	})
	Logger = slog.New(handler)
	slog.SetDefault(Logger)
}

// init initializes the logger when the package is imported
func init() {
	InitLogger()
}

// EnableDebug switches the global logger to debug level
func EnableDebug() {
	level.Set(slog.LevelDebug)
}

// Transport wraps base so every exchange is logged at debug level.
// Authorization headers are never logged.
func Transport(base http.RoundTripper) http.RoundTripper {
	return &loghttp.Transport{
		Transport:   base,
		LogRequest:  logRequest,
		LogResponse: logResponse,
	}
}

func logRequest(req *http.Request) {
	Debug("HTTP request",
		"method", req.Method,
		"url", req.URL.String(),
		"request_id", req.Header.Get("X-Request-Id"),
		"headers", redact(req.Header),
	)
}

func logResponse(resp *http.Response) {
	Debug("HTTP response",
		"method", resp.Request.Method,
		"url", resp.Request.URL.String(),
		"request_id", resp.Request.Header.Get("X-Request-Id"),
		"status", resp.Status,
		"status_code", resp.StatusCode,
		"location", resp.Header.Get("Location"),
	)
}

func redact(h http.Header) http.Header {
	if h.Get("Authorization") == "" {
		return h
	}
	c := h.Clone()
	c.Set("Authorization", "[REDACTED]")
	return c
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}
