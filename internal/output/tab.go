package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TabWriter writes one tab-delimited row per sample.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Sample",
			"Variants",
			"Indels",
			"SVs",
			"Ti/Tv",
			"AMR",
			"ASN",
			"AFR",
			"EUR",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single sample report.
func (tw *TabWriter) Write(r *SampleReport) error {
	values := []string{
		r.Sample,
		fmt.Sprintf("%d", r.VariantCount),
		fmt.Sprintf("%d", r.IndelCount),
		fmt.Sprintf("%d", r.SVCount),
		fmt.Sprintf("%.4f", r.TiTv),
	}

	// Ethnicity columns stay "-" unless estimation ran.
	for _, pop := range []string{"AMR", "ASN", "AFR", "EUR"} {
		if r.Ethnicity == nil {
			values = append(values, "-")
			continue
		}
		values = append(values, fmt.Sprintf("%.6f", r.Ethnicity[pop]))
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
