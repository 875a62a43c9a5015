// Package logger 是 zerolog 的薄封装，便于注入并保持输出格式一致。
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config 是日志配置。
type Config struct {
	Env    string // development 输出可读文本，其余输出 JSON
	Level  string // trace, debug, info, warn, error
	Output io.Writer
}

// Logger 封装 zerolog.Logger。
type Logger struct {
	zl zerolog.Logger
}

// New 创建结构化日志记录器，并替换 zerolog 的全局 logger。
func New(cfg Config) *Logger {
	w := cfg.Output
	if w == nil {
		w = os.Stderr
	}
	if cfg.Env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	zl := zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
	log.Logger = zl

	return &Logger{zl: zl}
}

// Nop 返回丢弃所有输出的日志记录器。
func Nop() *Logger { return &Logger{zl: zerolog.Nop()} }

// parseLevel 无法识别或为空时回退到 info。
func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func (l *Logger) Trace() *zerolog.Event { return l.zl.Trace() }
func (l *Logger) Debug() *zerolog.Event { return l.zl.Debug() }
func (l *Logger) Info() *zerolog.Event  { return l.zl.Info() }
func (l *Logger) Warn() *zerolog.Event  { return l.zl.Warn() }
func (l *Logger) Error() *zerolog.Event { return l.zl.Error() }
func (l *Logger) Fatal() *zerolog.Event { return l.zl.Fatal() }

// Child 返回带固定字符串字段的子 logger。
func (l *Logger) Child(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}
