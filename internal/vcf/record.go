// Package vcf provides streaming VCF parsing for per-sample statistics.
package vcf

// Allele is one decoded chromosome-copy call from a genotype.
// AlleleMissing marks a "." call, AlleleRef the reference allele, and any
// positive value is a 1-based index into the record's alternate alleles.
type Allele int

const (
	AlleleMissing Allele = -1
	AlleleRef     Allele = 0
)

// IsAlt reports whether the call references an alternate allele.
func (a Allele) IsAlt() bool {
	return a > AlleleRef
}

// Record is one parsed VCF body line. It lives only as long as the line
// that produced it; accumulators copy out whatever they keep.
type Record struct {
	Ref  string   // reference allele (column 4)
	Alts []string // alternate alleles (column 5, comma-split)

	// Genotypes holds one decoded call list per sample, in header order.
	// Each list has one or two alleles (haploid or diploid).
	Genotypes [][]Allele

	// AlleleFreqs maps population codes (AMR, ASN, AFR, EUR) to allele
	// frequencies from the INFO field. Empty unless the parser was asked
	// to collect them and the line carried recognized keys.
	AlleleFreqs map[string]float64

	Line int // 1-based line number in the input stream
}

// populationAFKeys maps the recognized 1000 Genomes INFO keys to the
// population codes reported downstream. Any other INFO key is ignored.
var populationAFKeys = map[string]string{
	"AMR_AF": "AMR",
	"ASN_AF": "ASN",
	"AFR_AF": "AFR",
	"EUR_AF": "EUR",
}
