package stats

import (
	"github.com/inodb/vibe-stats/internal/vcf"
)

// SampleStats is the running statistics record for one sample.
// Counters only ever increase; TiTv stays zero until Finalize runs.
type SampleStats struct {
	Name string

	// Substitutions counts SNP evidence, indexed [reference][alternate].
	Substitutions [NumBases][NumBases]uint64

	VariantCount uint64
	IndelCount   uint64
	SVCount      uint64

	TiTv float64
}

// Accumulator owns one SampleStats per sample and updates them once per
// body line. It is single-session state: one goroutine, one stream.
type Accumulator struct {
	stats     []*SampleStats
	finalized bool
}

// NewAccumulator creates an accumulator with zeroed stats for each sample.
func NewAccumulator(samples []string) *Accumulator {
	stats := make([]*SampleStats, len(samples))
	for i, name := range samples {
		stats[i] = &SampleStats{Name: name}
	}
	return &Accumulator{stats: stats}
}

// Record folds one body line into every sample's statistics.
//
// Counting policy: per sample, the distinct alternate indices referenced
// by its non-missing, non-reference calls are collected first.
// VariantCount rises by one if that set is non-empty, no matter its size.
// Each distinct index then contributes to exactly one counter according
// to its classification, so a genotype spanning an indel alternate and a
// structural alternate bumps IndelCount and SVCount on the same line.
func (a *Accumulator) Record(rec *vcf.Record) {
	classes := make([]Classification, len(rec.Alts))
	for i, alt := range rec.Alts {
		classes[i] = Classify(rec.Ref, alt)
	}

	for i, alleles := range rec.Genotypes {
		if i >= len(a.stats) {
			break
		}
		s := a.stats[i]

		// Distinct alternate indices for this genotype. Diploid calls
		// give at most two.
		var distinct [2]int
		n := 0
		for _, allele := range alleles {
			if !allele.IsAlt() {
				continue
			}
			idx := int(allele)
			if n > 0 && distinct[0] == idx {
				continue
			}
			distinct[n] = idx
			n++
		}
		if n == 0 {
			continue
		}

		s.VariantCount++
		for _, idx := range distinct[:n] {
			alt := rec.Alts[idx-1]
			switch classes[idx-1] {
			case SNP:
				s.Substitutions[BaseFromByte(rec.Ref[0])][BaseFromByte(alt[0])]++
			case Insertion, Deletion:
				s.IndelCount++
			case StructuralVariant:
				s.SVCount++
			}
		}
	}
}

// Finalize runs the Ti/Tv post-pass and returns the per-sample records.
// Safe to call more than once; the ratio is recomputed idempotently.
func (a *Accumulator) Finalize() []*SampleStats {
	for _, s := range a.stats {
		s.TiTv = TransitionRatio(&s.Substitutions)
	}
	a.finalized = true
	return a.stats
}

// Stats returns the per-sample records in header order without finalizing.
func (a *Accumulator) Stats() []*SampleStats {
	return a.stats
}
