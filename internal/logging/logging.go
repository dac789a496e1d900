// Package logging builds the process-wide leveled logger shared by the HTTP
// server, the router and the local store.
//
// The logger is the gommon logger that echo uses for c.Logger(), so request
// logs and component logs end up in the same stream with the same header.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

// Header is the line prefix used for every log record.
const Header = `${time_rfc3339} ${level} ${prefix} ${short_file}:${line}`

// Config controls how New builds a logger.
type Config struct {
	Level  string    // debug, info, warn, error, off (default info)
	Prefix string    // default "suar"
	Output io.Writer // default os.Stdout
}

// Logger is the subset of the gommon logger that components depend on.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// New returns a logger configured from cfg.
func New(cfg Config) *log.Logger {
	if cfg.Prefix == "" {
		cfg.Prefix = "suar"
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	l := log.New(cfg.Prefix)
	l.SetHeader(Header)
	l.SetOutput(cfg.Output)
	l.SetLevel(ParseLevel(cfg.Level))
	return l
}

// Discard returns a logger that drops every record.
func Discard() *log.Logger {
	l := log.New("discard")
	l.SetOutput(io.Discard)
	l.SetLevel(log.OFF)
	return l
}

// ParseLevel maps a level name to a gommon level. Unknown names map to INFO.
func ParseLevel(s string) log.Lvl {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off", "none":
		return log.OFF
	default:
		return log.INFO
	}
}
