// Package feed loads minute-bar series from files.
package feed

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/jwtly10/tradesim/internal/errors"
	"github.com/jwtly10/tradesim/internal/types"
	"github.com/moznion/go-optional"
)

const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
)

// FormatOf infers the format from the file extension, defaulting to CSV.
func FormatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return FormatParquet
	}
	return FormatCSV
}

// Load reads the whole series at path. An empty format is inferred from the
// extension.
func Load(ctx context.Context, path, format string) (types.Series, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeMissingSeries, "no data file specified")
	}
	if format == "" {
		format = FormatOf(path)
	}

	switch format {
	case FormatCSV:
		return LoadCSV(path)
	case FormatParquet:
		src, err := OpenParquet(path)
		if err != nil {
			return nil, err
		}
		defer src.Close()
		return src.Load(ctx, optional.None[time.Time](), optional.None[time.Time]())
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown data format %q", format)
	}
}
