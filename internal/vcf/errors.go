package vcf

import "fmt"

// Kind identifies the category of a VCF parse failure. The set is closed:
// every malformed-input condition the parser detects maps to exactly one
// Kind, so callers can branch on kind instead of matching message text.
type Kind int

const (
	// MalformedHeader means the stream ended before a #CHROM line was found.
	MalformedHeader Kind = iota
	// UnexpectedHeaderLine means a header line started with neither "##" nor "#CHROM".
	UnexpectedHeaderLine
	// NoSamples means the column-header line carried no sample columns.
	NoSamples
	// DuplicateSampleName means a sample name appears more than once in the column header.
	DuplicateSampleName
	// FieldCountMismatch means a body line's field count differs from the header's.
	FieldCountMismatch
	// MissingGenotypeField means no GT sub-field was available for a sample.
	MissingGenotypeField
	// UnsupportedPloidy means a genotype carried more than two allele tokens.
	UnsupportedPloidy
	// UnsupportedAltForm means a genotype token used a symbolic or breakend allele form.
	UnsupportedAltForm
	// InvalidGenotypeToken means a genotype token was not a missing marker or allele index.
	InvalidGenotypeToken
)

var kindNames = map[Kind]string{
	MalformedHeader:      "malformed header",
	UnexpectedHeaderLine: "unexpected header line",
	NoSamples:            "no samples",
	DuplicateSampleName:  "duplicate sample name",
	FieldCountMismatch:   "field count mismatch",
	MissingGenotypeField: "missing genotype field",
	UnsupportedPloidy:    "unsupported ploidy",
	UnsupportedAltForm:   "unsupported alt form",
	InvalidGenotypeToken: "invalid genotype token",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a fatal parse failure. All fields besides Kind are context:
// Line is the 1-based line number, Raw the offending line or field, and
// Expected/Found carry counts for kinds where they apply.
type Error struct {
	Kind     Kind
	Line     int
	Raw      string
	Expected int
	Found    int
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("vcf: %s at line %d", e.Kind, e.Line)
	if e.Kind == FieldCountMismatch {
		msg += fmt.Sprintf(" (expected %d fields, found %d)", e.Expected, e.Found)
	}
	if e.Raw != "" {
		msg += fmt.Sprintf(": %q", e.Raw)
	}
	return msg
}
