package stats

// Classification is the variant type of one (reference, alternate) pair.
type Classification uint8

const (
	SNP Classification = iota
	Insertion
	Deletion
	StructuralVariant
)

func (c Classification) String() string {
	switch c {
	case SNP:
		return "SNP"
	case Insertion:
		return "insertion"
	case Deletion:
		return "deletion"
	default:
		return "structural variant"
	}
}

// Classify determines the variant type from allele lengths alone.
// Pure and total: every non-empty (ref, alt) pair maps to exactly one
// classification.
func Classify(ref, alt string) Classification {
	switch {
	case len(ref) == 1 && len(alt) == 1:
		return SNP
	case len(ref) == 1:
		return Insertion
	case len(alt) == 1:
		return Deletion
	default:
		return StructuralVariant
	}
}
