package logger

import (
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Setup builds the process logger.
//   - level: trace, debug, info, warn, error, fatal, panic (falls back to info)
//   - format: "pretty" for console output, anything else emits JSON lines
func Setup(level, format string) zerolog.Logger {
	var writer io.Writer = os.Stdout
	if format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	return zerolog.New(writer).
		With().
		Timestamp().
		Str("service", "examhall").
		Logger()
}

// RequestLogger logs one line per HTTP request with status and latency.
// It replaces gin's default text logger so request logs share the JSON format.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	httpLog := log.With().Str("component", "http").Logger()

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := httpLog.Info()
		switch {
		case status >= 500:
			evt = httpLog.Error()
		case status >= 400:
			evt = httpLog.Warn()
		}

		reqID, _ := c.Get("request_id")
		evt.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Interface("request_id", reqID).
			Msg("request")
	}
}
