package driver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConnectionString(t *testing.T) {
	params, err := ParseConnectionString("Driver=mysql; Server=localhost:3306;Database=ecdb;User=root;Pass=se=cret;")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"driver":   "mysql",
		"server":   "localhost:3306",
		"database": "ecdb",
		"user":     "root",
		"pass":     "se=cret",
	}, params)

	params, err = ParseConnectionString("")
	require.NoError(t, err)
	assert.Empty(t, params)

	_, err = ParseConnectionString("driver=sqlite;dbpath")
	assert.ErrorIs(t, err, ErrConnectionString)

	_, err = ParseConnectionString("=x")
	assert.ErrorIs(t, err, ErrConnectionString)
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, "dbpath=x.db", nil)
	assert.ErrorIs(t, err, ErrMissingParam)

	_, err = Open(ctx, "driver=oracle", nil)
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = Open(ctx, "driver=sqlite", nil)
	assert.ErrorIs(t, err, ErrMissingParam)

	_, err = Open(ctx, "driver=mysql;server=localhost", nil)
	assert.ErrorIs(t, err, ErrMissingParam)
}
