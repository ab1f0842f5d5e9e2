package vcf

import (
	"strconv"
	"strings"
)

// decodeGenotype parses one sample's raw column into allele calls.
// field is the whole sample column (e.g. "0|1:0.5:20"), gtIndex the
// position of the GT sub-field within it, and altCount the number of
// alternate alleles on the line. line is carried for error context only.
func decodeGenotype(field string, gtIndex, altCount, line int) ([]Allele, error) {
	subfields := strings.Split(field, ":")
	if gtIndex >= len(subfields) {
		return nil, &Error{Kind: MissingGenotypeField, Line: line, Raw: field}
	}

	gt := subfields[gtIndex]
	tokens := strings.Split(strings.ReplaceAll(gt, "|", "/"), "/")
	if len(tokens) > 2 {
		return nil, &Error{Kind: UnsupportedPloidy, Line: line, Raw: gt, Found: len(tokens)}
	}

	alleles := make([]Allele, 0, len(tokens))
	for _, tok := range tokens {
		if strings.ContainsAny(tok, "<[]") {
			return nil, &Error{Kind: UnsupportedAltForm, Line: line, Raw: tok}
		}
		if tok == "." {
			alleles = append(alleles, AlleleMissing)
			continue
		}
		if !digitsOnly(tok) {
			return nil, &Error{Kind: InvalidGenotypeToken, Line: line, Raw: tok}
		}
		idx, err := strconv.Atoi(tok)
		if err != nil || idx > altCount {
			return nil, &Error{Kind: InvalidGenotypeToken, Line: line, Raw: tok}
		}
		alleles = append(alleles, Allele(idx))
	}

	return alleles, nil
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
