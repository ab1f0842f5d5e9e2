package vcf

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// DefaultBufferSize is the read buffer size used when none is given.
// Reads come off the stream in blocks of at most this size; bufio
// carries any trailing partial line over to the next block, so a line
// is never split across reads.
const DefaultBufferSize = 1 << 20

const (
	metaPrefix   = "##"
	columnPrefix = "#CHROM"

	// fixedColumns is the number of columns before the first sample:
	// CHROM POS ID REF ALT QUAL FILTER INFO FORMAT.
	fixedColumns = 9

	refColumn    = 3
	altColumn    = 4
	infoColumn   = 7
	formatColumn = 8
)

// Parser reads per-sample genotype records from a VCF stream.
// Header consumption happens at construction; Next then yields one
// Record per body line until EOF. Any grammar violation aborts the
// session with a *Error.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader

	lineNumber  int
	headerLines []string
	samples     []string
	totalFields int

	parseAlleleFreqs bool
}

// NewParser opens a VCF parser for the given file path.
// Supports plain and gzipped VCF; "-" reads from stdin.
func NewParser(path string) (*Parser, error) {
	return NewParserBuffer(path, DefaultBufferSize)
}

// NewParserBuffer is NewParser with an explicit read buffer size.
func NewParserBuffer(path string, bufferSize int) (*Parser, error) {
	if path == "-" {
		return newParser(os.Stdin, bufferSize)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	// Check for gzip magic bytes, then rewind.
	magic := make([]byte, 2)
	if _, err := io.ReadFull(file, magic); err != nil {
		file.Close()
		return nil, fmt.Errorf("read vcf header: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek vcf file: %w", err)
	}

	var r io.Reader = file
	var gz *gzip.Reader
	if magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r = gz
	}

	p, err := newParser(r, bufferSize)
	if err != nil {
		if gz != nil {
			gz.Close()
		}
		file.Close()
		return nil, err
	}
	p.file = file
	p.gzipReader = gz
	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) (*Parser, error) {
	return newParser(r, DefaultBufferSize)
}

func newParser(r io.Reader, bufferSize int) (*Parser, error) {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	p := &Parser{reader: bufio.NewReaderSize(r, bufferSize)}
	if err := p.parseHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

// SetAlleleFrequencyParsing controls whether Next extracts population
// allele frequencies from the INFO column. Off by default; the INFO
// column is skipped entirely when disabled.
func (p *Parser) SetAlleleFrequencyParsing(enabled bool) {
	p.parseAlleleFreqs = enabled
}

// parseHeader consumes metadata lines up to and including the column
// header, recording sample names and the expected field count.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.readLine()
		if err != nil {
			if err == io.EOF {
				return &Error{Kind: MalformedHeader, Line: p.lineNumber}
			}
			return fmt.Errorf("read header: %w", err)
		}

		if strings.HasPrefix(line, metaPrefix) {
			p.headerLines = append(p.headerLines, line)
			continue
		}

		if strings.HasPrefix(line, columnPrefix) {
			p.headerLines = append(p.headerLines, line)
			return p.parseColumnHeader(line)
		}

		return &Error{Kind: UnexpectedHeaderLine, Line: p.lineNumber, Raw: line}
	}
}

// parseColumnHeader extracts sample names and the total field count
// from the #CHROM line.
func (p *Parser) parseColumnHeader(line string) error {
	fields := strings.Fields(line)
	if len(fields) < fixedColumns+1 {
		return &Error{Kind: NoSamples, Line: p.lineNumber, Raw: line, Found: len(fields)}
	}

	samples := fields[fixedColumns:]
	seen := make(map[string]bool, len(samples))
	for _, name := range samples {
		if seen[name] {
			return &Error{Kind: DuplicateSampleName, Line: p.lineNumber, Raw: name}
		}
		seen[name] = true
	}

	p.samples = samples
	p.totalFields = len(fields)
	return nil
}

// Next reads the next body line. Returns nil, nil at end of stream.
func (p *Parser) Next() (*Record, error) {
	for {
		line, err := p.readLine()
		if err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("read body line: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		return p.parseBodyLine(line)
	}
}

// parseBodyLine splits one data line and decodes every sample genotype.
func (p *Parser) parseBodyLine(line string) (*Record, error) {
	fields := strings.Fields(line)
	if len(fields) != p.totalFields {
		return nil, &Error{
			Kind:     FieldCountMismatch,
			Line:     p.lineNumber,
			Raw:      line,
			Expected: p.totalFields,
			Found:    len(fields),
		}
	}

	rec := &Record{
		Ref:  fields[refColumn],
		Alts: strings.Split(fields[altColumn], ","),
		Line: p.lineNumber,
	}

	gtIndex := -1
	for i, key := range strings.Split(fields[formatColumn], ":") {
		if key == "GT" {
			gtIndex = i
			break
		}
	}
	if gtIndex < 0 {
		return nil, &Error{Kind: MissingGenotypeField, Line: p.lineNumber, Raw: fields[formatColumn]}
	}

	rec.Genotypes = make([][]Allele, len(p.samples))
	for i, field := range fields[fixedColumns:] {
		alleles, err := decodeGenotype(field, gtIndex, len(rec.Alts), p.lineNumber)
		if err != nil {
			return nil, err
		}
		rec.Genotypes[i] = alleles
	}

	if p.parseAlleleFreqs {
		rec.AlleleFreqs = parseAlleleFreqs(fields[infoColumn])
	}

	return rec, nil
}

// parseAlleleFreqs pulls the recognized population AF keys out of an
// INFO column. Pieces without "=", unknown keys, and values that fail
// float parsing are all skipped; malformed INFO is never fatal.
func parseAlleleFreqs(info string) map[string]float64 {
	freqs := make(map[string]float64)
	for _, piece := range strings.Split(info, ";") {
		kv := strings.SplitN(piece, "=", 2)
		if len(kv) != 2 {
			continue
		}
		code, ok := populationAFKeys[kv[0]]
		if !ok {
			continue
		}
		af, err := strconv.ParseFloat(kv[1], 64)
		if err != nil {
			continue
		}
		freqs[code] = af
	}
	return freqs
}

// readLine returns the next line without its trailing newline.
func (p *Parser) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			p.lineNumber++
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	p.lineNumber++
	return strings.TrimRight(line, "\r\n"), nil
}

// HeaderLines returns the raw header lines, including the column header.
func (p *Parser) HeaderLines() []string {
	return p.headerLines
}

// Samples returns the sample names from the column header, in file order.
func (p *Parser) Samples() []string {
	return p.samples
}

// TotalFields returns the field count every body line must match.
func (p *Parser) TotalFields() int {
	return p.totalFields
}

// LineNumber returns the number of the line read most recently.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and any underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}
