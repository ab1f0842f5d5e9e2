// Package ethnicity estimates ancestral-population posteriors per sample
// from population allele-frequency annotations.
package ethnicity

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/inodb/vibe-stats/internal/vcf"
)

// ErrNotEnabled is returned by every estimator operation when the
// estimator was constructed disabled.
var ErrNotEnabled = errors.New("ethnicity: estimation not enabled")

// Populations are the ancestral-population codes, in reporting order.
// They match the 1000 Genomes phase-1 INFO annotation keys.
var Populations = [...]string{"AMR", "ASN", "AFR", "EUR"}

const numPopulations = len(Populations)

// uniformLogPrior is ln(1/4): no population is favored before evidence.
var uniformLogPrior = math.Log(0.25)

// AF annotations carry two decimals, so exact 0 and 1 are rounding
// artifacts; they are pulled off the boundary before taking logs.
const (
	clampTolerance = 0.0001
	clampHigh      = 0.995
	clampLow       = 0.005
)

// Estimator accumulates one log-likelihood per (sample, population) and
// converts the totals into normalized posteriors. Construction-time
// gating: a disabled estimator rejects every operation with ErrNotEnabled.
type Estimator struct {
	enabled  bool
	samples  []string
	loglik   [][numPopulations]float64
	evidence []uint64 // AF observations folded in, per sample
}

// NewEstimator creates an estimator for the given samples. When enabled
// is false the estimator is inert and all operations fail.
func NewEstimator(samples []string, enabled bool) *Estimator {
	return &Estimator{
		enabled:  enabled,
		samples:  samples,
		loglik:   make([][numPopulations]float64, len(samples)),
		evidence: make([]uint64, len(samples)),
	}
}

// Enabled reports whether estimation was requested at construction.
func (e *Estimator) Enabled() bool {
	return e.enabled
}

// ObserveRecord folds one body line into every sample's log-likelihoods.
// Each non-missing chromosome copy contributes one observation per
// population with AF data on the line: ln(af) for a variant call,
// ln(1-af) for a reference call.
func (e *Estimator) ObserveRecord(rec *vcf.Record) error {
	if !e.enabled {
		return ErrNotEnabled
	}
	if len(rec.AlleleFreqs) == 0 {
		return nil
	}

	for i, alleles := range rec.Genotypes {
		if i >= len(e.samples) {
			break
		}
		for _, allele := range alleles {
			if allele == vcf.AlleleMissing {
				continue
			}
			if err := e.Observe(i, allele.IsAlt(), rec.AlleleFreqs); err != nil {
				return err
			}
		}
	}
	return nil
}

// Observe folds a single chromosome-copy observation into one sample's
// totals. variant marks whether the copy carries an alternate allele.
func (e *Estimator) Observe(sample int, variant bool, freqs map[string]float64) error {
	if !e.enabled {
		return ErrNotEnabled
	}
	if len(freqs) == 0 {
		return nil
	}

	for p, code := range Populations {
		af, ok := freqs[code]
		if !ok {
			continue
		}
		af = clampAF(af)
		if variant {
			e.loglik[sample][p] += math.Log(af)
		} else {
			e.loglik[sample][p] += math.Log(1.0 - af)
		}
		e.evidence[sample]++
	}
	return nil
}

// Posteriors normalizes each sample's accumulated log-likelihoods into
// population probabilities summing to 1.0, applying a uniform prior.
// The normalization runs in log space: over millions of sites the
// log-likelihoods are large-magnitude negatives and a direct exp would
// underflow every posterior to zero. Samples without any accumulated AF
// evidence report 0.0 for all populations.
func (e *Estimator) Posteriors() ([]map[string]float64, error) {
	if !e.enabled {
		return nil, ErrNotEnabled
	}

	posteriors := make([]map[string]float64, len(e.samples))
	for i := range e.samples {
		result := make(map[string]float64, numPopulations)
		if e.evidence[i] == 0 {
			for _, code := range Populations {
				result[code] = 0.0
			}
			posteriors[i] = result
			continue
		}

		logPost := make([]float64, numPopulations)
		for p := range Populations {
			logPost[p] = e.loglik[i][p] + uniformLogPrior
		}
		total := floats.LogSumExp(logPost)
		for p, code := range Populations {
			result[code] = math.Exp(logPost[p] - total)
		}
		posteriors[i] = result
	}
	return posteriors, nil
}

// LogLikelihoods returns a copy of one sample's running totals, in
// Populations order.
func (e *Estimator) LogLikelihoods(sample int) ([numPopulations]float64, error) {
	if !e.enabled {
		return [numPopulations]float64{}, ErrNotEnabled
	}
	return e.loglik[sample], nil
}

// clampAF pulls frequencies off the 0 and 1 boundaries so their logs
// stay finite.
func clampAF(af float64) float64 {
	if math.Abs(af-1.0) < clampTolerance {
		return clampHigh
	}
	if math.Abs(af) < clampTolerance {
		return clampLow
	}
	return af
}
