package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/bloomsim/internal/metrics"
)

var detailHeader = []string{"hybrids", "hybrids_avg", "duplicates", "duplicates_avg", "fails", "fails_avg"}

// ExportCSV writes one row per run: each outcome's total and its per-flower
// average to two decimals.
func ExportCSV(w io.Writer, s metrics.Summary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(detailHeader); err != nil {
		return err
	}

	for _, row := range s.Rows {
		record := []string{
			strconv.Itoa(row.Totals.Hybrids), formatAvg(row.PerFlower.Hybrids),
			strconv.Itoa(row.Totals.Duplicates), formatAvg(row.PerFlower.Duplicates),
			strconv.Itoa(row.Totals.Fails), formatAvg(row.PerFlower.Fails),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatAvg(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

type ExportData struct {
	Batch   BatchMeta       `json:"batch"`
	Summary metrics.Summary `json:"summary"`
}

func ExportJSON(w io.Writer, meta BatchMeta, s metrics.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{Batch: meta, Summary: s})
}
