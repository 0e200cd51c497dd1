package csvio

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/limaJavier/cttfeatures/pkg/model"
)

// WriteFeatures writes the feature table with one header row of field names.
// An empty table is written as the header row alone.
func WriteFeatures(w io.Writer, records []model.CourseFeatures) error {
	if len(records) == 0 {
		header, err := gocsv.MarshalString([]model.CourseFeatures{{}})
		if err != nil {
			return fmt.Errorf("cannot write feature header: %w", err)
		}
		_, err = io.WriteString(w, headerLine(header))
		return err
	}

	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("cannot write feature table: %w", err)
	}
	return nil
}

func headerLine(table string) string {
	for i, r := range table {
		if r == '\n' {
			return table[:i+1]
		}
	}
	return table
}

// BenchmarkRow is one measured run of the feature command over one instance.
type BenchmarkRow struct {
	Mode          string  `csv:"mode"`
	Instance      string  `csv:"instance"`
	Courses       int     `csv:"courses"`
	Rooms         int     `csv:"rooms"`
	Curricula     int     `csv:"curricula"`
	Duration      int64   `csv:"duration_ms"`
	Memory        float32 `csv:"memory_mb"`
	CpuPercentage int64   `csv:"cpu_percent"`
	Result        string  `csv:"result"`
}

func WriteBenchmark(w io.Writer, rows []BenchmarkRow) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("cannot write benchmark table: %w", err)
	}
	return nil
}
