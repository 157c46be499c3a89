package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:100"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return recorder
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, a := range attrs {
		if string(a.Key) == key {
			return a.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
	assert.Equal(t, "postgresql", cfg.DBSystem)
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	recorder := useRecorder(t)
	db := setupTestDB(t)

	require.NoError(t, NewDBTracingPlugin(DefaultDBTracingConfig(), zap.NewNop()).Register(db))
	require.NoError(t, db.Create(&tracedRow{Name: "a"}).Error)

	assert.Empty(t, recorder.Ended())
}

func TestDBTracingPlugin_Enabled(t *testing.T) {
	recorder := useRecorder(t)
	db := setupTestDB(t)

	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	cfg.DBSystem = "sqlite"
	require.NoError(t, NewDBTracingPlugin(cfg, zap.NewNop()).Register(db))

	ctx, parent := otel.Tracer("test").Start(context.Background(), "parent")
	require.NoError(t, db.WithContext(ctx).Create(&tracedRow{Name: "a"}).Error)
	var rows []tracedRow
	require.NoError(t, db.WithContext(ctx).Find(&rows).Error)
	parent.End()

	assert.GreaterOrEqual(t, len(recorder.Ended()), 3)
}

func TestDBTracingPlugin_After(t *testing.T) {
	recorder := useRecorder(t)
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Millisecond}, zap.NewNop())

	ctx, span := otel.Tracer("test").Start(context.Background(), "query")
	ctx = context.WithValue(ctx, queryStartKey{}, time.Now().Add(-time.Second))

	tx := db.Session(&gorm.Session{NewDB: true})
	tx.Statement.Context = ctx
	tx.Statement.Table = "invoices"
	tx.Statement.RowsAffected = 3
	tx.Error = errors.New("connection reset")

	plugin.after(tx)
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	attrs := ended[0].Attributes()

	v, ok := attrValue(attrs, "db.rows_affected")
	require.True(t, ok)
	assert.Equal(t, int64(3), v.AsInt64())
	v, ok = attrValue(attrs, "db.sql.table")
	require.True(t, ok)
	assert.Equal(t, "invoices", v.AsString())
	v, ok = attrValue(attrs, "db.slow_query")
	require.True(t, ok)
	assert.True(t, v.AsBool())
	assert.Equal(t, codes.Error, ended[0].Status().Code)
}

func TestDBTracingPlugin_After_IgnoresNotFound(t *testing.T) {
	recorder := useRecorder(t)
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Hour}, zap.NewNop())

	ctx, span := otel.Tracer("test").Start(context.Background(), "query")
	tx := db.Session(&gorm.Session{NewDB: true})
	tx.Statement.Context = ctx
	tx.Error = gorm.ErrRecordNotFound

	plugin.after(tx)
	span.End()

	require.Len(t, recorder.Ended(), 1)
	assert.NotEqual(t, codes.Error, recorder.Ended()[0].Status().Code)
	_, slow := attrValue(recorder.Ended()[0].Attributes(), "db.slow_query")
	assert.False(t, slow)
}
