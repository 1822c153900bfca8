package feed

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jwtly10/tradesim/internal/errors"
	"github.com/jwtly10/tradesim/internal/types"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
)

// ParquetSource reads a series from a Parquet file with columns
// time (TIMESTAMP), price (DOUBLE) and volume (BIGINT) through an in-memory
// DuckDB.
type ParquetSource struct {
	path string
	db   *sql.DB
	sq   squirrel.StatementBuilderType
}

func OpenParquet(path string) (*ParquetSource, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataUnavailable, "failed to open duckdb", err)
	}

	return &ParquetSource{
		path: path,
		db:   db,
		sq:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

func (p *ParquetSource) Close() error {
	return p.db.Close()
}

// Query builds the select for the optional [start, end] window.
func (p *ParquetSource) Query(start, end optional.Option[time.Time]) (string, []any, error) {
	// DuckDB table functions cannot take a bound parameter for the path
	from := fmt.Sprintf("read_parquet('%s')", strings.ReplaceAll(p.path, "'", "''"))

	query := p.sq.Select("time", "price", "volume").From(from)
	if start.IsSome() {
		query = query.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}
	if end.IsSome() {
		query = query.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	return query.OrderBy("time ASC").ToSql()
}

// Load reads every row in the window. Rows are validated as a whole before
// the series is returned.
func (p *ParquetSource) Load(ctx context.Context, start, end optional.Option[time.Time]) (types.Series, error) {
	query, args, err := p.Query(start, end)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataUnavailable, "failed to build query", err)
	}

	feedLog.Debug("Querying parquet", "path", p.path, "query", query)

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataUnavailable, err, "failed to query %s", p.path)
	}
	defer rows.Close()

	var series types.Series
	for rows.Next() {
		var e types.Entry
		if err := rows.Scan(&e.Timestamp, &e.Price, &e.Volume); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMalformedData, err, "failed to scan row %d", len(series))
		}
		series = append(series, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMalformedData, err, "failed to read %s", p.path)
	}

	if row, err := series.Validate(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMalformedData, err, "row %d", row)
	}

	feedLog.Info("Loaded parquet series", "path", p.path, "entries", len(series))
	return series, nil
}
