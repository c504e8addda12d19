package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRebind(t *testing.T) {
	q := "INSERT INTO nodes (id, lat) VALUES (?, ?)"
	assert.Equal(t, q, Rebind(SQLite, q))
	assert.Equal(t, "INSERT INTO nodes (id, lat) VALUES ($1, $2)", Rebind(Postgres, q))
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("postgres")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	d, err = ParseDialect("")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)

	_, err = ParseDialect("mysql")
	assert.Error(t, err)
}
