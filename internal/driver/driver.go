// Package driver executes composed statements against a relational backend
// and hands rows back as text keyed by "Table.Field".
package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yashagw/ecdb/internal/plan"
	"github.com/yashagw/ecdb/internal/record"
)

var (
	ErrUnknownDriver    = errors.New("unknown driver")
	ErrConnectionString = errors.New("malformed connection string")
	ErrMissingParam     = errors.New("missing connection parameter")
	ErrNotConnected     = errors.New("not connected")
	ErrNotPersisted     = errors.New("record has no primary key")
	ErrTableNotFound    = errors.New("table not found")
)

// Row is one result row, column alias to textual value.
type Row map[string]string

// Driver is the backend a table reads from and writes through.
type Driver interface {
	Connect(ctx context.Context, params map[string]string) error
	Disconnect() error
	IsConnected() bool
	CurrentDatabase() string
	CurrentUser() string

	// Insert writes r and returns the primary key assigned by the backend.
	Insert(ctx context.Context, r *record.Record) (int, error)
	Modify(ctx context.Context, r *record.Record) error
	Delete(ctx context.Context, r *record.Record) error
	// GetData runs the query described by root and its joins.
	GetData(ctx context.Context, root plan.Node) ([]Row, error)

	CreateTableIfNotExist(ctx context.Context, schema *record.Schema) error
	AlterTableFields(ctx context.Context, schema *record.Schema) error
}

// Open parses a connection string, creates the driver it names and connects.
func Open(ctx context.Context, connStr string, log *slog.Logger) (*SQLDriver, error) {
	params, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, err
	}
	name, ok := params["driver"]
	if !ok {
		return nil, fmt.Errorf("%w: driver", ErrMissingParam)
	}
	d, err := NewSQLDriver(name, log)
	if err != nil {
		return nil, err
	}
	if err := d.Connect(ctx, params); err != nil {
		return nil, err
	}
	return d, nil
}
