package evaluator

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

var errEmptyDataset = errors.New("evaluation dataset has no rows")

// dataset is the held-out evaluation set. The last column is the label; only the
// other columns ever leave the host.
type dataset struct {
	header   []string
	features [][]string
	labels   []string
}

func loadDataset(path string) (*dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open evaluation dataset: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse evaluation dataset: %w", err)
	}
	if len(rows) < 2 || len(rows[0]) < 2 {
		return nil, errEmptyDataset
	}

	ds := &dataset{header: rows[0][:len(rows[0])-1]}
	for i, row := range rows[1:] {
		if len(row) == 0 || (len(row) == 1 && row[0] == "") {
			continue
		}
		if len(row) != len(rows[0]) {
			return nil, fmt.Errorf("evaluation dataset row %d has %d columns, expected %d", i+2, len(row), len(rows[0]))
		}
		ds.features = append(ds.features, row[:len(row)-1])
		ds.labels = append(ds.labels, normalizeLabel(row[len(row)-1]))
	}
	if len(ds.labels) == 0 {
		return nil, errEmptyDataset
	}
	return ds, nil
}

// writeFeatures writes the header and feature columns, without labels.
func (d *dataset) writeFeatures(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(d.header); err != nil {
		return err
	}
	if err := writer.WriteAll(d.features); err != nil {
		return err
	}
	return file.Close()
}

// normalizeLabel gives predictions and labels one textual form: numbers lose
// trailing zeros ("1.0" and 1 both become "1"), anything else is kept verbatim.
func normalizeLabel(value interface{}) string {
	switch v := value.(type) {
	case float64:
		return formatNumber(v)
	case string:
		trimmed := strings.TrimSpace(v)
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return formatNumber(f)
		}
		return trimmed
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
