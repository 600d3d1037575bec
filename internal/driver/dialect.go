package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yashagw/ecdb/internal/query"
	"github.com/yashagw/ecdb/internal/record"
)

var ErrUnboundParam = errors.New("statement references unbound parameter")

// dialect holds what differs between backends: how to connect, how column
// types are spelled, how parameters are passed and how columns are dropped.
type dialect interface {
	// name is also the database/sql driver name.
	name() string
	// dsn returns the data source name plus the database and user it
	// connects as.
	dsn(params map[string]string) (dsn, database, user string, err error)
	maxOpenConns() int
	columnType(info record.FieldInfo) string
	primaryKeyType() string
	allowsDefault(t record.FieldType) bool
	// tableExistsQuery and columnsQuery take the table name as @table.
	tableExistsQuery() string
	columnsQuery() string
	args(stmt string, params query.Params) (string, []any, error)
	dropColumns(ctx context.Context, d *SQLDriver, schema *record.Schema, existing []string) error
}

func newDialect(name string) (dialect, error) {
	switch strings.ToLower(name) {
	case "sqlite":
		return sqliteDialect{}, nil
	case "mysql":
		return mysqlDialect{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}
}

// defaultLiteral is the DEFAULT clause value for a NOT NULL column, the zero
// value of its type.
func defaultLiteral(t record.FieldType) (string, error) {
	switch t {
	case record.Boolean:
		return "0", nil
	case record.Date, record.DateTime:
		b, err := record.Bind(t, record.Zero(t))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("'%s'", b), nil
	default:
		return record.Encode(t, record.Zero(t))
	}
}

// positional rewrites @name placeholders outside of quotes to "?" and returns
// the argument list in placeholder order.
func positional(stmt string, params query.Params) (string, []any, error) {
	var sb strings.Builder
	var args []any
	var quote byte
	for i := 0; i < len(stmt); i++ {
		c := stmt[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			sb.WriteByte(c)
		case c == '\'' || c == '"' || c == '`':
			quote = c
			sb.WriteByte(c)
		case c == '@':
			j := i + 1
			for j < len(stmt) && isIdentByte(stmt[j]) {
				j++
			}
			name := stmt[i+1 : j]
			v, ok := params.Lookup(name)
			if !ok {
				return "", nil, fmt.Errorf("%w: @%s", ErrUnboundParam, name)
			}
			args = append(args, v)
			sb.WriteByte('?')
			i = j - 1
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), args, nil
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
