package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"notekeep/config"
	"notekeep/repository"
)

// FixedTime is a clock that always reports Fixed.
type FixedTime struct {
	Fixed time.Time
}

func (ft FixedTime) Now() time.Time {
	return ft.Fixed
}

// StepTime returns Start, then Start+Step, Start+2*Step and so on. It lets a
// test create notes with distinct, predictable timestamps.
type StepTime struct {
	Start time.Time
	Step  time.Duration
	calls atomic.Int64
}

func (st *StepTime) Now() time.Time {
	n := st.calls.Add(1) - 1
	return st.Start.Add(time.Duration(n) * st.Step)
}

var dbSeq atomic.Int64

// SetupTestDB opens a private in-memory sqlite database with the notes schema
// and closes it when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		SQLitePath:   fmt.Sprintf("file:notekeep_test_%d?mode=memory&cache=shared", dbSeq.Add(1)),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := repository.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := repository.SetupSchema(ctx, db, cfg.Driver); err != nil {
		db.Close()
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database: %v", err)
		}
	})
	return db
}
