// Package stats accumulates per-sample variant statistics from a VCF stream.
package stats

// Base is a nucleotide in the closed substitution-matrix alphabet.
// Anything outside A, C, G, T (case-insensitive) folds to N, which the
// Ti/Tv pass excludes.
type Base uint8

const (
	BaseA Base = iota
	BaseC
	BaseG
	BaseT
	BaseN

	// NumBases sizes the substitution matrix.
	NumBases = 5
)

// BaseFromByte maps a nucleotide character to its matrix index.
func BaseFromByte(b byte) Base {
	switch b {
	case 'A', 'a':
		return BaseA
	case 'C', 'c':
		return BaseC
	case 'G', 'g':
		return BaseG
	case 'T', 't':
		return BaseT
	default:
		return BaseN
	}
}

func (b Base) String() string {
	switch b {
	case BaseA:
		return "A"
	case BaseC:
		return "C"
	case BaseG:
		return "G"
	case BaseT:
		return "T"
	default:
		return "N"
	}
}
