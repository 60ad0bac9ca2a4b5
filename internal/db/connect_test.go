package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartmcq/smartmcq/internal/db"
	"github.com/smartmcq/smartmcq/internal/db/dbtest"
)

func TestOpenCreatesSchema(t *testing.T) {
	h := dbtest.Open(t)
	for _, table := range []string{"users", "questions", "tests", "event_log"} {
		var n int
		err := h.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type='table' AND name=$1`, table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := db.Open(context.Background(), db.Driver("oracle"), "")
	assert.Error(t, err)
}
