package vcf

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const testHeader = `##fileformat=VCFv4.1
#CHROM POS ID REF ALT QUAL FILTER INFO FORMAT S1 S2
`

func mustKind(t *testing.T, err error, kind Kind) *Error {
	t.Helper()
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *vcf.Error, got %v", err)
	}
	if verr.Kind != kind {
		t.Fatalf("expected error kind %v, got %v", kind, verr.Kind)
	}
	return verr
}

func TestParser_Header(t *testing.T) {
	input := `##fileformat=VCFv4.1
##source=test
#CHROM POS ID REF ALT QUAL FILTER INFO FORMAT NA001 NA002 NA003
`
	p, err := NewParserFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	samples := p.Samples()
	if len(samples) != 3 {
		t.Fatalf("Expected 3 samples, got %d", len(samples))
	}
	want := []string{"NA001", "NA002", "NA003"}
	for i, name := range want {
		if samples[i] != name {
			t.Errorf("Sample %d: expected %s, got %s", i, name, samples[i])
		}
	}

	if p.TotalFields() != 12 {
		t.Errorf("Expected 12 total fields, got %d", p.TotalFields())
	}
	if len(p.HeaderLines()) != 3 {
		t.Errorf("Expected 3 header lines, got %d", len(p.HeaderLines()))
	}
}

func TestParser_HeaderEOF(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("##fileformat=VCFv4.1\n##other=x\n"))
	mustKind(t, err, MalformedHeader)
}

func TestParser_UnexpectedHeaderLine(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("##meta=1\nnot a header line\n"))
	verr := mustKind(t, err, UnexpectedHeaderLine)
	if verr.Raw != "not a header line" {
		t.Errorf("Expected offending line in error, got %q", verr.Raw)
	}
	if verr.Line != 2 {
		t.Errorf("Expected line 2, got %d", verr.Line)
	}
}

func TestParser_NoSamples(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("#CHROM POS ID REF ALT QUAL FILTER INFO FORMAT\n"))
	mustKind(t, err, NoSamples)
}

func TestParser_DuplicateSampleName(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("#CHROM POS ID REF ALT QUAL FILTER INFO FORMAT S1 S2 S1\n"))
	verr := mustKind(t, err, DuplicateSampleName)
	if verr.Raw != "S1" {
		t.Errorf("Expected duplicate name S1 in error, got %q", verr.Raw)
	}
}

func TestParser_BodyLine(t *testing.T) {
	input := testHeader + "1 100 . A G 50 PASS . GT 0/1 1/1\n"
	p, err := NewParserFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}
	if rec == nil {
		t.Fatal("Expected a record, got nil")
	}

	if rec.Ref != "A" {
		t.Errorf("Expected ref A, got %s", rec.Ref)
	}
	if len(rec.Alts) != 1 || rec.Alts[0] != "G" {
		t.Errorf("Expected alts [G], got %v", rec.Alts)
	}
	if len(rec.Genotypes) != 2 {
		t.Fatalf("Expected 2 genotypes, got %d", len(rec.Genotypes))
	}
	if rec.Genotypes[0][0] != AlleleRef || rec.Genotypes[0][1] != Allele(1) {
		t.Errorf("Expected S1 genotype [0 1], got %v", rec.Genotypes[0])
	}
	if rec.Genotypes[1][0] != Allele(1) || rec.Genotypes[1][1] != Allele(1) {
		t.Errorf("Expected S2 genotype [1 1], got %v", rec.Genotypes[1])
	}

	// EOF
	rec, err = p.Next()
	if err != nil {
		t.Fatalf("Error at end of stream: %v", err)
	}
	if rec != nil {
		t.Error("Expected no more records")
	}
}

func TestParser_MultiAllelic(t *testing.T) {
	input := testHeader + "1 100 . C T,CAT 50 PASS . GT 1/2 0/0\n"
	p, err := NewParserFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}
	if len(rec.Alts) != 2 || rec.Alts[0] != "T" || rec.Alts[1] != "CAT" {
		t.Errorf("Expected alts [T CAT], got %v", rec.Alts)
	}
}

func TestParser_FieldCountMismatch(t *testing.T) {
	input := testHeader + "1 100 . A G 50 PASS . GT 0/1\n"
	p, err := NewParserFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	_, err = p.Next()
	verr := mustKind(t, err, FieldCountMismatch)
	if verr.Expected != 11 {
		t.Errorf("Expected 11 in Expected, got %d", verr.Expected)
	}
	if verr.Found != 10 {
		t.Errorf("Expected 10 in Found, got %d", verr.Found)
	}
}

func TestParser_MissingGenotypeField(t *testing.T) {
	input := testHeader + "1 100 . A G 50 PASS . DP:GQ 20 18\n"
	p, err := NewParserFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	_, err = p.Next()
	mustKind(t, err, MissingGenotypeField)
}

func TestParser_GTOffsetInFormat(t *testing.T) {
	input := testHeader + "1 100 . A G 50 PASS . DP:GT:GQ 20:0/1:99 18:1/1:90\n"
	p, err := NewParserFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}
	if rec.Genotypes[0][1] != Allele(1) {
		t.Errorf("Expected alt call from GT sub-field at offset 1, got %v", rec.Genotypes[0])
	}
}

func TestParser_AlleleFrequencies(t *testing.T) {
	input := testHeader +
		"1 100 . A G 50 PASS AMR_AF=0.30;ASN_AF=0.25;junk;X=1;AFR_AF=bad;EUR_AF=0.40 GT 0/1 1/1\n"

	p, err := NewParserFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	p.SetAlleleFrequencyParsing(true)

	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}

	want := map[string]float64{"AMR": 0.30, "ASN": 0.25, "EUR": 0.40}
	if len(rec.AlleleFreqs) != len(want) {
		t.Fatalf("Expected %d frequencies, got %v", len(want), rec.AlleleFreqs)
	}
	for code, af := range want {
		if rec.AlleleFreqs[code] != af {
			t.Errorf("Expected %s=%v, got %v", code, af, rec.AlleleFreqs[code])
		}
	}
}

func TestParser_AlleleFrequenciesDisabled(t *testing.T) {
	input := testHeader + "1 100 . A G 50 PASS AMR_AF=0.30 GT 0/1 1/1\n"
	p, err := NewParserFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Failed to read record: %v", err)
	}
	if rec.AlleleFreqs != nil {
		t.Errorf("Expected no frequencies when parsing is disabled, got %v", rec.AlleleFreqs)
	}
}

func TestParser_SkipsBlankLines(t *testing.T) {
	input := testHeader + "\n1 100 . A G 50 PASS . GT 0/1 1/1\n\n"
	p, err := NewParserFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	rec, err := p.Next()
	if err != nil || rec == nil {
		t.Fatalf("Expected a record, got %v, %v", rec, err)
	}
	rec, err = p.Next()
	if err != nil || rec != nil {
		t.Fatalf("Expected end of stream, got %v, %v", rec, err)
	}
}

func TestParser_NoTrailingNewline(t *testing.T) {
	input := testHeader + "1 100 . A G 50 PASS . GT 0/1 1/1"
	p, err := NewParserFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}

	rec, err := p.Next()
	if err != nil || rec == nil {
		t.Fatalf("Expected a record from final unterminated line, got %v, %v", rec, err)
	}
}

func TestParser_File(t *testing.T) {
	p, err := NewParser(filepath.Join("testdata", "small.vcf"))
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	defer p.Close()

	if len(p.Samples()) != 2 {
		t.Fatalf("Expected 2 samples, got %d", len(p.Samples()))
	}

	count := 0
	for {
		rec, err := p.Next()
		if err != nil {
			t.Fatalf("Error reading record: %v", err)
		}
		if rec == nil {
			break
		}
		count++
	}
	if count != 2 {
		t.Errorf("Expected 2 records, got %d", count)
	}
}

func TestParser_GzipFile(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "small.vcf"))
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(raw); err != nil {
		t.Fatalf("Failed to compress fixture: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("Failed to close gzip writer: %v", err)
	}

	path := filepath.Join(t.TempDir(), "small.vcf.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write gzip fixture: %v", err)
	}

	p, err := NewParser(path)
	if err != nil {
		t.Fatalf("Failed to create parser: %v", err)
	}
	defer p.Close()

	rec, err := p.Next()
	if err != nil || rec == nil {
		t.Fatalf("Expected a record from gzipped input, got %v, %v", rec, err)
	}
	if rec.Ref != "A" {
		t.Errorf("Expected ref A, got %s", rec.Ref)
	}
}
