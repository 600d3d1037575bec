package driver

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yashagw/ecdb/internal/query"
	"github.com/yashagw/ecdb/internal/record"

	_ "modernc.org/sqlite"
)

type sqliteDialect struct{}

func (sqliteDialect) name() string { return "sqlite" }

// dsn needs dbpath. A pass parameter is accepted but the pure Go backend
// does not encrypt databases.
func (sqliteDialect) dsn(params map[string]string) (string, string, string, error) {
	if err := requireParams(params, "dbpath"); err != nil {
		return "", "", "", err
	}
	path := params["dbpath"]
	return path + "?_pragma=busy_timeout(5000)", strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), "", nil
}

// One connection, so that every statement sees the same database even when
// it lives in memory.
func (sqliteDialect) maxOpenConns() int { return 1 }

func (sqliteDialect) columnType(info record.FieldInfo) string {
	switch info.Type() {
	case record.Varchar:
		return fmt.Sprintf("VARCHAR(%d)", info.Length())
	case record.Char:
		return "CHAR(1)"
	case record.Int:
		return "INTEGER"
	case record.Blob:
		return "BLOB"
	case record.Boolean:
		return "BOOLEAN"
	case record.DateTime:
		return "DATETIME"
	case record.Date:
		return "DATE"
	case record.Decimal:
		return "NUMERIC"
	case record.Float, record.Double:
		return "REAL"
	default:
		return "TEXT"
	}
}

func (sqliteDialect) primaryKeyType() string { return "INTEGER PRIMARY KEY AUTOINCREMENT" }

func (sqliteDialect) allowsDefault(record.FieldType) bool { return true }

func (sqliteDialect) tableExistsQuery() string {
	return "SELECT name FROM sqlite_master WHERE type='table' AND name=@table"
}

func (sqliteDialect) columnsQuery() string {
	return "SELECT name FROM pragma_table_info(@table) ORDER BY cid"
}

func (sqliteDialect) args(stmt string, params query.Params) (string, []any, error) {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = sql.Named(p.Name, p.Value)
	}
	return stmt, args, nil
}

// dropColumns rebuilds the table with the columns of schema, copying the
// columns that exist on both sides.
func (sqliteDialect) dropColumns(ctx context.Context, d *SQLDriver, schema *record.Schema, existing []string) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	table := schema.Table()
	old := table + "_old"
	var common []string
	for _, f := range schema.Fields() {
		if slices.Contains(existing, f) {
			common = append(common, query.QuoteIdent(f))
		}
	}
	create, err := d.createTableSQL(schema, false)
	if err != nil {
		return err
	}
	cols := strings.Join(common, ", ")
	stmts := []string{
		fmt.Sprintf("ALTER TABLE %s RENAME TO %s", query.QuoteIdent(table), query.QuoteIdent(old)),
		create,
		fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s", query.QuoteIdent(table), cols, cols, query.QuoteIdent(old)),
		fmt.Sprintf("DROP TABLE %s", query.QuoteIdent(old)),
	}
	for _, stmt := range stmts {
		if _, err := d.exec(ctx, tx, "ddl", stmt, nil); err != nil {
			return err
		}
	}
	return tx.Commit()
}
