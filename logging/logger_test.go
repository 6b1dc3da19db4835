package logging

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// TestFieldConstructors 测试字段构造函数
func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "s", Value: "v"}, String("s", "v"))
	assert.Equal(t, Field{Key: "i", Value: 1}, Int("i", 1))
	assert.Equal(t, Field{Key: "i64", Value: int64(2)}, Int64("i64", 2))
	assert.Equal(t, Field{Key: "b", Value: true}, Bool("b", true))
	assert.Equal(t, Field{Key: "d", Value: time.Second}, Duration("d", time.Second))

	err := fmt.Errorf("boom")
	assert.Equal(t, Field{Key: "error", Value: err}, Error(err))
}

// TestGlobalLogger 测试全局 Logger 的设置与获取
func TestGlobalLogger(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	custom := NewStdLogger("[test]")
	SetLogger(custom)
	assert.Same(t, Logger(custom), GetLogger())

	// nil 不覆盖现有 Logger
	SetLogger(nil)
	assert.Same(t, Logger(custom), GetLogger())
}

// TestLogrusLogger_Output 测试 logrus 适配器的结构化输出
func TestLogrusLogger_Output(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetLevel(logrus.DebugLevel)
	base.SetFormatter(&logrus.JSONFormatter{})

	logger := NewLogrusLogger(base)
	ctx := context.Background()

	logger.Info(ctx, "操作完成", String("entity", "book"), Int("count", 3))
	out := buf.String()
	assert.Contains(t, out, "操作完成")
	assert.Contains(t, out, `"entity":"book"`)
	assert.Contains(t, out, `"count":3`)

	// WithFields 返回携带固定字段的新 Logger
	buf.Reset()
	scoped := logger.WithFields(String("request_id", "r-1"))
	scoped.Warn(ctx, "慢查询")
	assert.Contains(t, buf.String(), `"request_id":"r-1"`)
}

// TestLogrusLogger_LevelFiltering 测试级别过滤
func TestLogrusLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetLevel(logrus.WarnLevel)

	logger := NewLogrusLogger(base)
	logger.Debug(context.Background(), "不应输出")
	assert.Empty(t, buf.String())

	logger.Error(context.Background(), "应输出")
	assert.NotEmpty(t, buf.String())
}
