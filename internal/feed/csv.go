package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jwtly10/tradesim/internal/errors"
	"github.com/jwtly10/tradesim/internal/logging"
	"github.com/jwtly10/tradesim/internal/types"
)

const (
	// Date (MM/DD/YYYY) and time (HHMM) columns are parsed together
	timestampLayout = "01/02/20061504"
	csvHeader       = "Date,Time,Price,Volume"
)

var feedLog = logging.New(logging.TopicFeed)

// LoadCSV reads a minute-bar file: a header row, then Date,Time,Price,Volume.
func LoadCSV(path string) (types.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDataUnavailable, err, "failed to open %s", path)
	}
	defer f.Close()

	series, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return series, nil
}

// ReadCSV parses every row before returning, so a bad row anywhere yields no
// series at all.
func ReadCSV(r io.Reader) (types.Series, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 4
	reader.TrimLeadingSpace = true

	// Skip the header
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return types.Series{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeMalformedData, "failed to read header", err)
	}

	var series types.Series
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedData, "failed to read row", err)
		}

		line, _ := reader.FieldPos(0)
		entry, err := parseRecord(record)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMalformedData, err, "line %d", line)
		}
		series = append(series, entry)
	}

	if row, err := series.Validate(); err != nil {
		// +2 for the header and 1-based lines
		return nil, errors.Wrapf(errors.ErrCodeMalformedData, err, "line %d", row+2)
	}

	feedLog.Info("Parsed CSV series", "entries", len(series))
	return series, nil
}

func parseRecord(record []string) (types.Entry, error) {
	date := strings.TrimSpace(record[0])
	clock := strings.TrimSpace(record[1])
	if len(clock) < 4 {
		clock = strings.Repeat("0", 4-len(clock)) + clock
	}

	timestamp, err := time.Parse(timestampLayout, date+clock)
	if err != nil {
		return types.Entry{}, fmt.Errorf("failed to parse timestamp %q %q: %w", record[0], record[1], err)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
	if err != nil {
		return types.Entry{}, fmt.Errorf("failed to parse price %q: %w", record[2], err)
	}

	volume, err := strconv.ParseInt(strings.TrimSpace(record[3]), 10, 64)
	if err != nil {
		return types.Entry{}, fmt.Errorf("failed to parse volume %q: %w", record[3], err)
	}

	return types.Entry{Timestamp: timestamp, Price: price, Volume: volume}, nil
}

// WriteCSV writes series in the format ReadCSV reads.
func WriteCSV(w io.Writer, series types.Series) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(strings.Split(csvHeader, ",")); err != nil {
		return err
	}
	for _, e := range series {
		record := []string{
			e.Timestamp.Format("01/02/2006"),
			e.Timestamp.Format("1504"),
			strconv.FormatFloat(e.Price, 'f', -1, 64),
			strconv.FormatInt(e.Volume, 10),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
