package polyld

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countedSite() *Site {
	return &Site{
		Chromosome: "2",
		Position:   1234,
		ID:         "rs42",
		Ref:        'A',
		Alt:        'T',
		Genotypes:  []string{"0/1", "0/0/0/1"},
		Counts: []PopCounts{
			{Haplotypes: 8, Alt: 2},
			{Haplotypes: 10, Alt: 5},
		},
	}
}

func TestVCFWriter(t *testing.T) {
	var out bytes.Buffer
	w := &VCFWriter{W: &out}

	v := &VCF{HeaderLines: []string{"##fileformat=VCFv4.2", "#CHROM\tPOS"}}
	require.NoError(t, w.WriteHeader(v))
	require.NoError(t, w.WriteSite(countedSite()))

	assert.Equal(t,
		"##fileformat=VCFv4.2\n"+
			"#CHROM\tPOS\n"+
			"2\t1234\trs42\tA\tT\t.\tPASS\t.\tGT:FT\t0/1:PASS\t0/0/0/1:PASS\n",
		out.String())
}

func TestFreqWriter(t *testing.T) {
	var out bytes.Buffer
	w := &FreqWriter{W: &out, Pops: &PopMap{Names: []string{"north", "south"}}}

	require.NoError(t, w.WriteHeader(nil))
	require.NoError(t, w.WriteSite(countedSite()))

	assert.Equal(t,
		"\tnorth\tsouth\n"+
			"2:1234\t0.250000\t0.500000\n",
		out.String())
}

func TestBayPassWriter(t *testing.T) {
	var out, info bytes.Buffer
	w := &BayPassWriter{W: &out, Info: &info, Pops: &PopMap{Names: []string{"north", "south"}}}

	require.NoError(t, w.WriteHeader(nil))
	require.NoError(t, w.WriteSite(countedSite()))

	assert.Equal(t, "6 2 5 5\n", out.String())
	assert.Equal(t, "#north\tsouth\n2\t1234\n", info.String())
}

func TestOutputModeString(t *testing.T) {
	assert.Equal(t, "genotypes", OutputGenotypes.String())
	assert.Equal(t, "frequencies", OutputFrequencies.String())
	assert.Equal(t, "counts", OutputCounts.String())
	assert.Equal(t, "Illegal selection", OutputMode(99).String())
}
