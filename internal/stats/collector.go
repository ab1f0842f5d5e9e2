package stats

import (
	"go.uber.org/zap"

	"github.com/inodb/vibe-stats/internal/ethnicity"
	"github.com/inodb/vibe-stats/internal/vcf"
)

// RecordParser is the stream the collector drains. *vcf.Parser satisfies it.
type RecordParser interface {
	// Next reads the next record. Returns nil, nil when the stream ends.
	Next() (*vcf.Record, error)
	// LineNumber returns the current line number being processed.
	LineNumber() int
}

// Collector drives one parse session: it drains a record stream into the
// statistics accumulator and, when enabled, the ethnicity estimator.
// Fail-fast: the first parse error aborts the session and no partial
// results are exposed.
type Collector struct {
	acc       *Accumulator
	estimator *ethnicity.Estimator
	logger    *zap.Logger

	recordCount int
	finalized   bool
}

// NewCollector creates a collector for the given samples. The estimator
// may be disabled; it is only consulted when enabled.
func NewCollector(samples []string, estimator *ethnicity.Estimator) *Collector {
	return &Collector{
		acc:       NewAccumulator(samples),
		estimator: estimator,
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger for progress and summary messages.
func (c *Collector) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Run consumes the parser until end of stream, updating every sample's
// statistics once per body line.
func (c *Collector) Run(parser RecordParser) error {
	for {
		rec, err := parser.Next()
		if err != nil {
			return err
		}
		if rec == nil {
			break
		}

		c.acc.Record(rec)
		if c.estimator.Enabled() {
			if err := c.estimator.ObserveRecord(rec); err != nil {
				return err
			}
		}
		c.recordCount++
	}

	c.logger.Info("vcf body consumed", zap.Int("records", c.recordCount))
	return nil
}

// Finalize runs the Ti/Tv post-pass and returns per-sample statistics.
// Call once Run has returned without error.
func (c *Collector) Finalize() []*SampleStats {
	c.finalized = true
	return c.acc.Finalize()
}

// Estimator exposes the ethnicity subsystem for posterior extraction.
func (c *Collector) Estimator() *ethnicity.Estimator {
	return c.estimator
}

// RecordCount returns the number of body lines consumed so far.
func (c *Collector) RecordCount() int {
	return c.recordCount
}
