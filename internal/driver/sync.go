package driver

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/yashagw/ecdb/internal/query"
	"github.com/yashagw/ecdb/internal/record"
)

// CreateTableIfNotExist creates the table for schema when it is missing.
func (d *SQLDriver) CreateTableIfNotExist(ctx context.Context, schema *record.Schema) error {
	if d.db == nil {
		return ErrNotConnected
	}
	stmt, err := d.createTableSQL(schema, true)
	if err != nil {
		return err
	}
	_, err = d.exec(ctx, d.db, "ddl", stmt, nil)
	return err
}

// AlterTableFields brings the columns of an existing table in line with
// schema: columns not in schema are dropped and missing ones are added.
// Columns whose type changed are left alone.
func (d *SQLDriver) AlterTableFields(ctx context.Context, schema *record.Schema) error {
	exists, err := d.Exists(ctx, schema.Table())
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrTableNotFound, schema.Table())
	}

	existing, err := d.Columns(ctx, schema.Table())
	if err != nil {
		return err
	}
	var removed []string
	for _, col := range existing {
		if !schema.HasField(col) {
			removed = append(removed, col)
		}
	}
	if len(removed) > 0 {
		d.log.Info("dropping columns", "table", schema.Table(), "columns", removed)
		if err := d.dialect.dropColumns(ctx, d, schema, existing); err != nil {
			return err
		}
		if existing, err = d.Columns(ctx, schema.Table()); err != nil {
			return err
		}
	}

	for _, f := range schema.Fields() {
		if slices.Contains(existing, f) {
			continue
		}
		info, _ := schema.GetFieldInfo(f)
		def, err := d.columnDef(info)
		if err != nil {
			return err
		}
		d.log.Info("adding column", "table", schema.Table(), "column", f)
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", query.QuoteIdent(schema.Table()), def)
		if _, err := d.exec(ctx, d.db, "ddl", stmt, nil); err != nil {
			return err
		}
	}
	return nil
}

func (d *SQLDriver) createTableSQL(schema *record.Schema, ifNotExists bool) (string, error) {
	defs := make([]string, 0, len(schema.Fields()))
	for _, f := range schema.Fields() {
		info, _ := schema.GetFieldInfo(f)
		def, err := d.columnDef(info)
		if err != nil {
			return "", err
		}
		defs = append(defs, def)
	}
	create := "CREATE TABLE "
	if ifNotExists {
		create += "IF NOT EXISTS "
	}
	return create + query.QuoteIdent(schema.Table()) + " (" + strings.Join(defs, ", ") + ")", nil
}

func (d *SQLDriver) columnDef(info record.FieldInfo) (string, error) {
	name := query.QuoteIdent(info.Name())
	if info.IsPrimaryKey() {
		return name + " " + d.dialect.primaryKeyType(), nil
	}
	def := name + " " + d.dialect.columnType(info)
	if info.IsNotNull() {
		def += " NOT NULL"
		if d.dialect.allowsDefault(info.Type()) {
			lit, err := defaultLiteral(info.Type())
			if err != nil {
				return "", err
			}
			def += " DEFAULT " + lit
		}
	}
	return def, nil
}
