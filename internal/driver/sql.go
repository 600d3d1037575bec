package driver

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/yashagw/ecdb/internal/plan"
	"github.com/yashagw/ecdb/internal/query"
	"github.com/yashagw/ecdb/internal/record"
)

// Layout time values read from the backend are rendered with. Record decoding
// accepts it for both DATE and DATETIME fields.
const rowTimeLayout = "2006-01-02 15:04:05.000"

// SQLDriver is a Driver over database/sql.
type SQLDriver struct {
	dialect  dialect
	log      *slog.Logger
	composer *plan.Composer

	db       *sql.DB
	database string
	user     string
}

var _ Driver = (*SQLDriver)(nil)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// NewSQLDriver creates an unconnected driver for the named dialect, "sqlite"
// or "mysql".
func NewSQLDriver(name string, log *slog.Logger) (*SQLDriver, error) {
	d, err := newDialect(name)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	return &SQLDriver{
		dialect:  d,
		log:      log.With("pkg", "driver", "dialect", d.name()),
		composer: plan.NewComposer(),
	}, nil
}

// Connect opens the database described by params and checks that it is
// reachable. An existing connection is closed first.
func (d *SQLDriver) Connect(ctx context.Context, params map[string]string) error {
	if d.db != nil {
		if err := d.Disconnect(); err != nil {
			return err
		}
	}
	dsn, database, user, err := d.dialect.dsn(params)
	if err != nil {
		return err
	}
	db, err := sql.Open(d.dialect.name(), dsn)
	if err != nil {
		return err
	}
	if n := d.dialect.maxOpenConns(); n > 0 {
		db.SetMaxOpenConns(n)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}
	d.db = db
	d.database = database
	d.user = user
	d.log.Info("connected", "database", database, "user", user)
	return nil
}

func (d *SQLDriver) Disconnect() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	d.log.Info("disconnected", "database", d.database)
	return err
}

func (d *SQLDriver) IsConnected() bool {
	return d.db != nil
}

func (d *SQLDriver) CurrentDatabase() string {
	return d.database
}

func (d *SQLDriver) CurrentUser() string {
	return d.user
}

// Dialect returns the dialect name.
func (d *SQLDriver) Dialect() string {
	return d.dialect.name()
}

func (d *SQLDriver) Insert(ctx context.Context, r *record.Record) (int, error) {
	if d.db == nil {
		return 0, ErrNotConnected
	}
	schema := r.Schema()
	var cols, holders []string
	var params query.Params
	for _, f := range schema.Fields() {
		if f == record.RecIDField {
			continue
		}
		p, err := bindField(r, f, len(params))
		if err != nil {
			return 0, err
		}
		params = append(params, p)
		cols = append(cols, query.QuoteIdent(f))
		holders = append(holders, "@"+p.Name)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		query.QuoteIdent(schema.Table()), strings.Join(cols, ", "), strings.Join(holders, ", "))
	res, err := d.exec(ctx, d.db, "insert", stmt, params)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// Modify updates every field of the row with r's primary key.
func (d *SQLDriver) Modify(ctx context.Context, r *record.Record) error {
	if d.db == nil {
		return ErrNotConnected
	}
	if r.RecID() == 0 {
		return fmt.Errorf("%w: modify %s", ErrNotPersisted, r.Schema().Table())
	}
	schema := r.Schema()
	var sets []string
	var params query.Params
	for _, f := range schema.Fields() {
		if f == record.RecIDField {
			continue
		}
		p, err := bindField(r, f, len(params))
		if err != nil {
			return err
		}
		params = append(params, p)
		sets = append(sets, query.QuoteIdent(f)+"=@"+p.Name)
	}
	if len(sets) == 0 {
		return nil
	}
	params = append(params, query.Param{Name: "k", Value: int64(r.RecID())})
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s=@k",
		query.QuoteIdent(schema.Table()), strings.Join(sets, ", "), query.QuoteIdent(record.RecIDField))
	_, err := d.exec(ctx, d.db, "modify", stmt, params)
	return err
}

func (d *SQLDriver) Delete(ctx context.Context, r *record.Record) error {
	if d.db == nil {
		return ErrNotConnected
	}
	if r.RecID() == 0 {
		return fmt.Errorf("%w: delete %s", ErrNotPersisted, r.Schema().Table())
	}
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s=@k",
		query.QuoteIdent(r.Schema().Table()), query.QuoteIdent(record.RecIDField))
	_, err := d.exec(ctx, d.db, "delete", stmt, query.Params{{Name: "k", Value: int64(r.RecID())}})
	return err
}

func (d *SQLDriver) GetData(ctx context.Context, root plan.Node) ([]Row, error) {
	if d.db == nil {
		return nil, ErrNotConnected
	}
	stmt, err := d.composer.Compose(root)
	if err != nil {
		return nil, err
	}
	return d.query(ctx, "select", stmt.SQL, stmt.Params)
}

// Exists reports whether the table exists in the connected database.
func (d *SQLDriver) Exists(ctx context.Context, table string) (bool, error) {
	if d.db == nil {
		return false, ErrNotConnected
	}
	rows, err := d.query(ctx, "select", d.dialect.tableExistsQuery(), query.Params{{Name: "table", Value: table}})
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// Columns returns the column names of a table in declaration order.
func (d *SQLDriver) Columns(ctx context.Context, table string) ([]string, error) {
	if d.db == nil {
		return nil, ErrNotConnected
	}
	rows, err := d.query(ctx, "select", d.dialect.columnsQuery(), query.Params{{Name: "table", Value: table}})
	if err != nil {
		return nil, err
	}
	cols := make([]string, 0, len(rows))
	for _, row := range rows {
		for _, v := range row {
			cols = append(cols, v)
		}
	}
	return cols, nil
}

func (d *SQLDriver) exec(ctx context.Context, x execer, op, stmt string, params query.Params) (sql.Result, error) {
	s, args, err := d.dialect.args(stmt, params)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	res, err := x.ExecContext(ctx, s, args...)
	d.observe(op, start, err)
	d.log.Debug("exec", "op", op, "sql", s, "duration", time.Since(start), "err", err)
	return res, err
}

func (d *SQLDriver) query(ctx context.Context, op, stmt string, params query.Params) ([]Row, error) {
	s, args, err := d.dialect.args(stmt, params)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	result, err := d.readRows(ctx, s, args)
	d.observe(op, start, err)
	d.log.Debug("query", "op", op, "sql", s, "rows", len(result), "duration", time.Since(start), "err", err)
	if err != nil {
		return nil, err
	}
	metricRowsFetched.WithLabelValues(d.dialect.name()).Add(float64(len(result)))
	return result, nil
}

func (d *SQLDriver) readRows(ctx context.Context, stmt string, args []any) ([]Row, error) {
	rows, err := d.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var result []Row
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(Row, len(cols))
		for i, col := range cols {
			row[col] = toText(vals[i])
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (d *SQLDriver) observe(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metricStatement.WithLabelValues(d.dialect.name(), op, result).Observe(float64(time.Since(start)) / float64(time.Second))
}

func bindField(r *record.Record, field string, n int) (query.Param, error) {
	v, err := r.Get(field)
	if err != nil {
		return query.Param{}, err
	}
	b, err := record.Bind(r.Schema().Type(field), v)
	if err != nil {
		return query.Param{}, fmt.Errorf("%s: %w", r.Schema().Qualified(field), err)
	}
	return query.Param{Name: "v" + strconv.Itoa(n), Value: b}, nil
}

// toText renders a scanned column value in the textual form the record codec
// decodes.
func toText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.UTC().Format(rowTimeLayout)
	default:
		return fmt.Sprint(v)
	}
}
