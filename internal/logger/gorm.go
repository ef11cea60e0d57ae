package logger

import (
	"context"
	"errors"
	"time"

	"github.com/deppfellow/todo-backend/internal/config"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger writes gorm's log output as zerolog events.
//
// Errors are logged at error level and statements slower than the
// threshold at warn level, so both survive the default info level.
// Individual statements are debug events.
type GormLogger struct {
	logger                    zerolog.Logger
	level                     gormlogger.LogLevel
	slowThreshold             time.Duration
	ignoreRecordNotFoundError bool
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// NewGormLogger adapts logger to gorm's logger interface.
//
// Local runs log every statement; other environments only log errors and
// statements slower than logging.slow_query_threshold. Record-not-found
// lookups are expected by the repository and never logged as errors.
func NewGormLogger(logger *zerolog.Logger, env string, cfg config.LoggingConfig) *GormLogger {
	level := gormlogger.Warn
	if env == "local" {
		level = gormlogger.Info
	}

	return &GormLogger{
		logger:                    logger.With().Str("component", "gorm").Logger(),
		level:                     level,
		slowThreshold:             cfg.SlowQueryThreshold,
		ignoreRecordNotFoundError: true,
	}
}

// LogMode returns a copy of l logging at level.
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Info {
		l.logger.Info().Msgf(msg, data...)
	}
}

func (l *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.logger.Warn().Msgf(msg, data...)
	}
}

func (l *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.level >= gormlogger.Error {
		l.logger.Error().Msgf(msg, data...)
	}
}

// Trace logs one executed statement.
func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlogger.Error &&
		(!l.ignoreRecordNotFoundError || !errors.Is(err, gormlogger.ErrRecordNotFound)):
		sql, rows := fc()
		l.logger.Error().
			Err(err).
			Str("sql", sql).
			Int64("rows", rows).
			Dur("elapsed", elapsed).
			Msg("query failed")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.logger.Warn().
			Str("sql", sql).
			Int64("rows", rows).
			Dur("elapsed", elapsed).
			Dur("threshold", l.slowThreshold).
			Msg("slow query")
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.logger.Debug().
			Str("sql", sql).
			Int64("rows", rows).
			Dur("elapsed", elapsed).
			Msg("query")
	}
}
