package driver

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-sql-driver/mysql"

	"github.com/yashagw/ecdb/internal/query"
	"github.com/yashagw/ecdb/internal/record"
)

type mysqlDialect struct{}

func (mysqlDialect) name() string { return "mysql" }

func (mysqlDialect) dsn(params map[string]string) (string, string, string, error) {
	if err := requireParams(params, "server", "database", "user"); err != nil {
		return "", "", "", err
	}
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = params["server"]
	cfg.DBName = params["database"]
	cfg.User = params["user"]
	cfg.Passwd = params["pass"]
	return cfg.FormatDSN(), cfg.DBName, cfg.User, nil
}

func (mysqlDialect) maxOpenConns() int { return 0 }

func (mysqlDialect) columnType(info record.FieldInfo) string {
	switch info.Type() {
	case record.Varchar:
		return fmt.Sprintf("VARCHAR(%d)", info.Length())
	case record.Char:
		return "CHAR(1)"
	case record.Int:
		return "INT"
	case record.Blob:
		return "BLOB"
	case record.Boolean:
		return "BOOLEAN"
	case record.DateTime:
		return "DATETIME(3)"
	case record.Date:
		return "DATE"
	case record.Decimal:
		return "DECIMAL(38,10)"
	case record.Float:
		return "FLOAT"
	case record.Double:
		return "DOUBLE"
	default:
		return "TEXT"
	}
}

func (mysqlDialect) primaryKeyType() string { return "INT NOT NULL AUTO_INCREMENT PRIMARY KEY" }

// TEXT and BLOB columns cannot have a literal default.
func (mysqlDialect) allowsDefault(t record.FieldType) bool {
	return t != record.Text && t != record.Blob
}

func (mysqlDialect) tableExistsQuery() string {
	return "SELECT TABLE_NAME FROM information_schema.TABLES WHERE TABLE_SCHEMA=DATABASE() AND TABLE_NAME=@table"
}

func (mysqlDialect) columnsQuery() string {
	return "SELECT COLUMN_NAME FROM information_schema.COLUMNS WHERE TABLE_SCHEMA=DATABASE() AND TABLE_NAME=@table ORDER BY ORDINAL_POSITION"
}

func (mysqlDialect) args(stmt string, params query.Params) (string, []any, error) {
	return positional(stmt, params)
}

func (mysqlDialect) dropColumns(ctx context.Context, d *SQLDriver, schema *record.Schema, existing []string) error {
	for _, col := range existing {
		if slices.Contains(schema.Fields(), col) {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", query.QuoteIdent(schema.Table()), query.QuoteIdent(col))
		if _, err := d.exec(ctx, d.db, "ddl", stmt, nil); err != nil {
			return err
		}
	}
	return nil
}
