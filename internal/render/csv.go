package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cwbudde/algo-fdm/dsp/core"
)

// WriteCSV writes a header row "time,<names...>" followed by one row per
// sample. Every series must match the length of time.
func WriteCSV(w io.Writer, time []float64, series []Series) error {
	for _, s := range series {
		if len(s.Y) != len(time) {
			return fmt.Errorf("%w: column %q has %d rows, time has %d", core.ErrShapeMismatch, s.Name, len(s.Y), len(time))
		}
	}

	cw := csv.NewWriter(w)
	record := make([]string, len(series)+1)
	record[0] = "time"
	for i, s := range series {
		record[i+1] = s.Name
	}
	if err := cw.Write(record); err != nil {
		return err
	}

	for k, t := range time {
		record[0] = strconv.FormatFloat(t, 'g', -1, 64)
		for i, s := range series {
			record[i+1] = strconv.FormatFloat(s.Y[k], 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV writes the table to path.
func SaveCSV(path string, time []float64, series []Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, time, series); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
