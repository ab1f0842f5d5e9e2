// Package output provides statistics output formatters.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/inodb/vibe-stats/internal/stats"
)

// SampleReport is the serialized form of one sample's finalized
// statistics, plus ethnicity posteriors when estimation ran.
type SampleReport struct {
	Sample        string                       `json:"sample"`
	Substitutions map[string]map[string]uint64 `json:"substitutions"`
	VariantCount  uint64                       `json:"variant_count"`
	IndelCount    uint64                       `json:"indel_count"`
	SVCount       uint64                       `json:"sv_count"`
	TiTv          float64                      `json:"ti_tv"`
	Ethnicity     map[string]float64           `json:"ethnicity,omitempty"`
}

// NewSampleReport converts finalized stats into their serialized form.
// ethnicity may be nil when estimation did not run.
func NewSampleReport(s *stats.SampleStats, ethnicity map[string]float64) *SampleReport {
	subs := make(map[string]map[string]uint64, stats.NumBases)
	for ref := stats.BaseA; ref <= stats.BaseN; ref++ {
		row := make(map[string]uint64, stats.NumBases)
		for alt := stats.BaseA; alt <= stats.BaseN; alt++ {
			row[alt.String()] = s.Substitutions[ref][alt]
		}
		subs[ref.String()] = row
	}

	return &SampleReport{
		Sample:        s.Name,
		Substitutions: subs,
		VariantCount:  s.VariantCount,
		IndelCount:    s.IndelCount,
		SVCount:       s.SVCount,
		TiTv:          s.TiTv,
		Ethnicity:     ethnicity,
	}
}

// BuildReports pairs finalized stats with ethnicity posteriors by index.
// posteriors may be nil.
func BuildReports(samples []*stats.SampleStats, posteriors []map[string]float64) []*SampleReport {
	reports := make([]*SampleReport, len(samples))
	for i, s := range samples {
		var eth map[string]float64
		if posteriors != nil && i < len(posteriors) {
			eth = posteriors[i]
		}
		reports[i] = NewSampleReport(s, eth)
	}
	return reports
}

// WriteJSON writes all reports as one indented JSON array.
func WriteJSON(w io.Writer, reports []*SampleReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

// WriteJSONDir writes one <sample>.json document per report, the
// one-file-per-individual layout.
func WriteJSONDir(dir string, reports []*SampleReport) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, r := range reports {
		path := filepath.Join(dir, r.Sample+".json")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
	}
	return nil
}
