package logging

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogrusLogger 基于 logrus 的 Logger 实现，提供结构化输出与级别控制
type LogrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger 基于给定的 logrus.Logger 创建适配器；
// logger 为 nil 时使用 logrus 标准实例
func NewLogrusLogger(logger *logrus.Logger) *LogrusLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusLogger{entry: logrus.NewEntry(logger)}
}

// NewLogrusLoggerWithLevel 创建指定级别的 logrus 适配器
func NewLogrusLoggerWithLevel(level Level) *LogrusLogger {
	logger := logrus.New()
	switch level {
	case DebugLevel:
		logger.SetLevel(logrus.DebugLevel)
	case InfoLevel:
		logger.SetLevel(logrus.InfoLevel)
	case WarnLevel:
		logger.SetLevel(logrus.WarnLevel)
	case ErrorLevel:
		logger.SetLevel(logrus.ErrorLevel)
	}
	return &LogrusLogger{entry: logrus.NewEntry(logger)}
}

func (l *LogrusLogger) withFields(fields []Field) *logrus.Entry {
	if len(fields) == 0 {
		return l.entry
	}
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return l.entry.WithFields(data)
}

func (l *LogrusLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.withFields(fields).Debug(msg)
}

func (l *LogrusLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.withFields(fields).Info(msg)
}

func (l *LogrusLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.withFields(fields).Warn(msg)
}

func (l *LogrusLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.withFields(fields).Error(msg)
}

func (l *LogrusLogger) WithFields(fields ...Field) Logger {
	return &LogrusLogger{entry: l.withFields(fields)}
}
