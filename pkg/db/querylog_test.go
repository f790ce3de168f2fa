package db

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/storefront-admin/pkg/logger"
)

func newBufferedQueryLogger(slow time.Duration) (gormlogger.Interface, *bytes.Buffer) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: &buf})
	return newQueryLogger(logg, slow), &buf
}

func statement() (string, int64) {
	return `SELECT * FROM "store_product" WHERE id = 1`, 1
}

func TestQueryLoggerReportsFailures(t *testing.T) {
	ql, buf := newBufferedQueryLogger(time.Second)

	ql.Trace(context.Background(), time.Now(), statement, errors.New("deadlock detected"))

	out := buf.String()
	assert.Contains(t, out, "db.query_failed")
	assert.Contains(t, out, "deadlock detected")
	assert.Contains(t, out, "store_product")
}

func TestQueryLoggerSkipsRecordNotFound(t *testing.T) {
	ql, buf := newBufferedQueryLogger(time.Second)

	ql.Trace(context.Background(), time.Now(), statement, gorm.ErrRecordNotFound)

	assert.Empty(t, buf.String())
}

func TestQueryLoggerFlagsSlowQueries(t *testing.T) {
	ql, buf := newBufferedQueryLogger(10 * time.Millisecond)

	ql.Trace(context.Background(), time.Now(), statement, nil)
	assert.Empty(t, buf.String(), "fast queries stay quiet at the default mode")

	ql.Trace(context.Background(), time.Now().Add(-time.Second), statement, nil)
	assert.Contains(t, buf.String(), "db.slow_query")
}

func TestQueryLoggerInfoModeLogsEveryQuery(t *testing.T) {
	ql, buf := newBufferedQueryLogger(0)

	ql.LogMode(gormlogger.Info).Trace(context.Background(), time.Now(), statement, nil)
	assert.Contains(t, buf.String(), "db.query")

	buf.Reset()
	ql.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), statement, errors.New("boom"))
	assert.Empty(t, buf.String())
}

func TestQueryLoggerWithoutLoggerDiscards(t *testing.T) {
	require.Equal(t, gormlogger.Discard, newQueryLogger(nil, time.Second))
}
