package stats

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-stats/internal/ethnicity"
	"github.com/inodb/vibe-stats/internal/vcf"
)

func newSession(t *testing.T, input string, withEthnicity bool) (*vcf.Parser, *Collector) {
	t.Helper()
	p, err := vcf.NewParserFromReader(strings.NewReader(input))
	require.NoError(t, err)
	p.SetAlleleFrequencyParsing(withEthnicity)

	est := ethnicity.NewEstimator(p.Samples(), withEthnicity)
	return p, NewCollector(p.Samples(), est)
}

func TestCollector_EndToEnd(t *testing.T) {
	input := `##fileformat=VCFv4.1
#CHROM POS ID REF ALT QUAL FILTER INFO FORMAT S1 S2
1 100 . A G 50 PASS . GT 0/1 1/1
`
	p, c := newSession(t, input, false)
	require.NoError(t, c.Run(p))

	finalized := c.Finalize()
	require.Len(t, finalized, 2)

	s1, s2 := finalized[0], finalized[1]
	assert.Equal(t, "S1", s1.Name)
	assert.Equal(t, uint64(1), s1.VariantCount)
	assert.Equal(t, uint64(1), s1.Substitutions[BaseA][BaseG])
	assert.Equal(t, "S2", s2.Name)
	assert.Equal(t, uint64(1), s2.VariantCount)
	assert.Equal(t, uint64(1), s2.Substitutions[BaseA][BaseG])

	assert.Equal(t, 1, c.RecordCount())
}

func TestCollector_AbortsOnUnsupportedPloidy(t *testing.T) {
	input := `##fileformat=VCFv4.1
#CHROM POS ID REF ALT QUAL FILTER INFO FORMAT S1 S2
1 100 . A G 50 PASS . GT 0/1 0/1/1
`
	p, c := newSession(t, input, false)

	err := c.Run(p)
	require.Error(t, err)

	var verr *vcf.Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, vcf.UnsupportedPloidy, verr.Kind)
}

func TestCollector_EthnicityEvidence(t *testing.T) {
	input := `##fileformat=VCFv4.1
#CHROM POS ID REF ALT QUAL FILTER INFO FORMAT S1
1 100 . A G 50 PASS AMR_AF=0.30;ASN_AF=0.25;AFR_AF=0.10;EUR_AF=0.40 GT 0/1
`
	p, c := newSession(t, input, true)
	require.NoError(t, c.Run(p))
	c.Finalize()

	posteriors, err := c.Estimator().Posteriors()
	require.NoError(t, err)
	require.Len(t, posteriors, 1)

	sum := 0.0
	for _, prob := range posteriors[0] {
		sum += prob
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestCollector_EthnicityDisabled(t *testing.T) {
	input := `##fileformat=VCFv4.1
#CHROM POS ID REF ALT QUAL FILTER INFO FORMAT S1
1 100 . A G 50 PASS AMR_AF=0.30 GT 0/1
`
	p, c := newSession(t, input, false)
	require.NoError(t, c.Run(p))

	_, err := c.Estimator().Posteriors()
	assert.ErrorIs(t, err, ethnicity.ErrNotEnabled)
}
