package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"ministry/config"
	deliverycontext "ministry/internal/delivery/context"
	"ministry/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func sqlFn() (string, int64) { return "SELECT 1", 1 }

func TestGormLoggerUsesRequestLogger(t *testing.T) {
	var base, scoped bytes.Buffer
	l := newGormSlogLogger(newBufferLogger(&base), &config.Config{})

	ctx := deliverycontext.WithLogger(context.Background(), newBufferLogger(&scoped).With(slog.String("request_id", "req-1")))
	l.Trace(ctx, time.Now(), sqlFn, assert.AnError)

	assert.Empty(t, base.String())
	assert.Contains(t, scoped.String(), "GORM query failed")
	assert.Contains(t, scoped.String(), "request_id=req-1")
	assert.Contains(t, scoped.String(), "level=ERROR")
}

func TestGormLoggerSkipsNotFoundAndDowngradesConflicts(t *testing.T) {
	var buf bytes.Buffer
	l := newGormSlogLogger(newBufferLogger(&buf), &config.Config{})

	l.Trace(context.Background(), time.Now(), sqlFn, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(context.Background(), time.Now(), sqlFn, gorm.ErrDuplicatedKey)
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestGormLoggerSlowQuery(t *testing.T) {
	var buf bytes.Buffer
	l := newGormSlogLogger(newBufferLogger(&buf), &config.Config{})

	l.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn, nil)
	assert.Contains(t, buf.String(), "GORM slow query")
}

func TestGormLoggerSlowThresholdFromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Env.Log.SlowQueryThreshold = 2 * time.Second

	var buf bytes.Buffer
	l := newGormSlogLogger(newBufferLogger(&buf), cfg)

	l.Trace(context.Background(), time.Now().Add(-time.Second), sqlFn, nil)
	assert.NotContains(t, buf.String(), "GORM slow query")

	l.Trace(context.Background(), time.Now().Add(-3*time.Second), sqlFn, nil)
	assert.Contains(t, buf.String(), "GORM slow query")
	assert.Contains(t, buf.String(), "slowThreshold=2s")
}

func TestGormLoggerHidesBoundValues(t *testing.T) {
	var _ gorm.ParamsFilter = &gormSlogLogger{}

	l := newGormSlogLogger(newBufferLogger(&bytes.Buffer{}), &config.Config{}).(gorm.ParamsFilter)
	sql, params := l.ParamsFilter(context.Background(), "SELECT * FROM users WHERE email = $1", "ada@example.com")
	assert.Equal(t, "SELECT * FROM users WHERE email = $1", sql)
	assert.Empty(t, params)

	cfg := &config.Config{}
	cfg.Env.Log.SQLParams = true
	l = newGormSlogLogger(newBufferLogger(&bytes.Buffer{}), cfg).(gorm.ParamsFilter)
	_, params = l.ParamsFilter(context.Background(), "SELECT * FROM users WHERE email = $1", "ada@example.com")
	assert.Equal(t, []any{"ada@example.com"}, params)
}

func TestGormLoggerRedactsThroughGorm(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{}
	cfg.Env.Debug = true
	db := testutil.NewDB(t).Session(&gorm.Session{Logger: newGormSlogLogger(newBufferLogger(&buf), cfg)})

	var count int64
	require.NoError(t, db.Table("users").Where("email = ?", "ada@example.com").Count(&count).Error)

	assert.Contains(t, buf.String(), "GORM query")
	assert.NotContains(t, buf.String(), "ada@example.com")
}
