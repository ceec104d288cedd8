// Package gorm routes GORM statement logging through zerolog.
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Logger implements gorm's logger.Interface on top of a zerolog logger.
type Logger struct {
	log           zerolog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// New creates a Logger writing to the global zerolog logger. Statements slower than
// slowThreshold are logged at warn level, a zero threshold disables slow query logging.
// With debug every statement is logged at debug level.
func New(slowThreshold time.Duration, debug bool) *Logger {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}

	return &Logger{
		log:           log.Logger.With().Str("component", "gorm").Logger(),
		level:         level,
		slowThreshold: slowThreshold,
	}
}

// LogMode implements logger.Interface.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level

	return &clone
}

// Info implements logger.Interface.
func (l *Logger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.Info().Msg(fmt.Sprintf(msg, data...))
	}
}

// Warn implements logger.Interface.
func (l *Logger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.Warn().Msg(fmt.Sprintf(msg, data...))
	}
}

// Error implements logger.Interface.
func (l *Logger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.Error().Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace implements logger.Interface. Record not found is not an error for callers
// mapping it to 404, so it is never logged.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.log.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.log.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow query")
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.log.Debug().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}
