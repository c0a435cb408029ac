package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"customer-analytics/internal/dataset"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readRecords parses CSV text. Short rows are padded so every record has the
// header's width.
func readRecords(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty file: no header row")
	}

	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	for i := 1; i < len(records); i++ {
		switch {
		case len(records[i]) < len(header):
			padded := make([]string, len(header))
			copy(padded, records[i])
			records[i] = padded
		case len(records[i]) > len(header):
			records[i] = records[i][:len(header)]
		}
	}
	return records, nil
}

// toFrame validates the header against the dataset's required columns and
// loads the records as an all-text frame.
func toFrame(name dataset.Name, records [][]string) (dataframe.DataFrame, error) {
	if len(records) == 0 {
		return dataframe.DataFrame{}, errors.New("no header row")
	}
	header := records[0]
	if missing := missingColumns(name, header); len(missing) > 0 {
		return dataframe.DataFrame{}, &MissingColumnsError{Columns: missing}
	}

	if len(records) == 1 {
		cols := make([]series.Series, len(header))
		for i, col := range header {
			cols[i] = series.New([]string{}, series.String, col)
		}
		df := dataframe.New(cols...)
		return df, df.Err
	}

	df := dataframe.LoadRecords(records,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.HasHeader(true),
	)
	return df, df.Err
}

func missingColumns(name dataset.Name, header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[strings.TrimSpace(h)] = struct{}{}
	}
	var missing []string
	for _, col := range dataset.RequiredColumns(name) {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

const maxBodyBytes = 512 << 20

var errBodyTooLarge = errors.New("response body too large")

// readAllLimited reads r and fails rather than truncate when it holds more
// than limit bytes.
func readAllLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: over %d bytes", errBodyTooLarge, limit)
	}
	return data, nil
}
