package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGormLogger_Trace(t *testing.T) {
	statement := func() (string, int64) { return `SELECT * FROM "devices"`, 3 }

	testCases := []struct {
		name        string
		level       logger.LogLevel
		begin       time.Time
		err         error
		expectedMsg string
	}{
		{name: "Failed query is an error", level: logger.Warn, begin: time.Now(), err: errors.New("connection reset"), expectedMsg: "query failed"},
		{name: "Missing record is not logged", level: logger.Warn, begin: time.Now(), err: gorm.ErrRecordNotFound},
		{name: "Slow query is a warning", level: logger.Warn, begin: time.Now().Add(-time.Second), expectedMsg: "slow query"},
		{name: "Fast query is quiet at warn level", level: logger.Warn, begin: time.Now()},
		{name: "Silent logs nothing", level: logger.Silent, begin: time.Now(), err: errors.New("connection reset")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			l := NewGormLogger(zap.New(core), tc.level)

			l.Trace(context.Background(), tc.begin, statement, tc.err)

			if tc.expectedMsg == "" {
				assert.Zero(t, logs.Len())
				return
			}
			entries := logs.All()
			if assert.Len(t, entries, 1) {
				assert.Equal(t, tc.expectedMsg, entries[0].Message)
				assert.Equal(t, `SELECT * FROM "devices"`, entries[0].ContextMap()["sql"])
			}
		})
	}
}

func TestGormLogger_LogMode(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	base := NewGormLogger(zap.New(core), logger.Warn)

	base.Info(context.Background(), "migrating %s", "devices")
	assert.Zero(t, logs.Len())

	base.LogMode(logger.Info).Info(context.Background(), "migrating %s", "devices")
	if assert.Equal(t, 1, logs.Len()) {
		assert.Equal(t, "migrating devices", logs.All()[0].Message)
	}
}
