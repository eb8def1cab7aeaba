package polyld

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteReaderDecodesRecords(t *testing.T) {
	input := testHeader +
		"1\t100\trs1\tA\tT\t.\tPASS\t.\tGT\t0/0\t0/1\t1/1\t./.\t0/1/0/1\t0/0/0/0/0/1\t1/1\t0|1\n"

	vcf, err := OpenReader(strings.NewReader(input))
	require.NoError(t, err)

	sr := vcf.NewSiteReader()
	s := sr.Read()
	require.NotNil(t, s)
	require.NoError(t, sr.Error())

	assert.Equal(t, "1", s.Chromosome)
	assert.Equal(t, 100, s.Position)
	assert.Equal(t, "rs1", s.ID)
	assert.Equal(t, byte('A'), s.Ref)
	assert.Equal(t, byte('T'), s.Alt)
	assert.Equal(t, []float64{0, 1, 2, MissingDosage, 2, 1, 2, 1}, s.Dosage)
	assert.Equal(t, 1, s.NMissing)
	assert.Equal(t, 9.0, s.AltAlleles)
	assert.Equal(t, 20.0, s.Haplotypes) // 5 called diploids + 1 tetraploid + 1 hexaploid
	assert.Equal(t, 8, sr.NIndividuals())

	assert.Nil(t, sr.Read())
	assert.NoError(t, sr.Error())
}

func TestSiteReaderStripsFormatFields(t *testing.T) {
	input := testHeader +
		"1\t100\t.\tA\tT\t.\tPASS\t.\tGT:DP:GQ\t0/1:12:99\t0/0:8:70\t1/1:20:99\t./.:0:0\t0/1:5:40\t0/0:9:88\t0/1:7:52\t1/1:11:95\n"

	vcf, err := OpenReader(strings.NewReader(input))
	require.NoError(t, err)

	s := vcf.NewSiteReader().Read()
	require.NotNil(t, s)
	assert.Equal(t, []float64{1, 0, 2, MissingDosage, 1, 0, 1, 2}, s.Dosage)
	assert.Equal(t, []string{"0/1", "0/0", "1/1", "./.", "0/1", "0/0", "0/1", "1/1"}, s.Genotypes)
}

func TestSiteReaderRejectsUnsortedPositions(t *testing.T) {
	input := testHeader +
		diploidRecord("1", 200, hv[0]) +
		diploidRecord("1", 100, hv[1])

	vcf, err := OpenReader(strings.NewReader(input))
	require.NoError(t, err)

	sr := vcf.NewSiteReader()
	require.NotNil(t, sr.Read())
	assert.Nil(t, sr.Read())
	require.Error(t, sr.Error())
	assert.Contains(t, sr.Error().Error(), "sort -k1,1 -k2,2n")
}

func TestSiteReaderRejectsChromosomeRecurrence(t *testing.T) {
	input := testHeader +
		diploidRecord("1", 100, hv[0]) +
		diploidRecord("2", 100, hv[1]) +
		diploidRecord("1", 200, hv[2])

	vcf, err := OpenReader(strings.NewReader(input))
	require.NoError(t, err)

	sr := vcf.NewSiteReader()
	require.NotNil(t, sr.Read())
	require.NotNil(t, sr.Read())
	assert.Nil(t, sr.Read())
	require.Error(t, sr.Error())
	assert.Contains(t, sr.Error().Error(), "recurs")
}

func TestSiteReaderRejectsColumnCountDrift(t *testing.T) {
	input := testHeader +
		diploidRecord("1", 100, hv[0]) +
		"1\t200\t.\tA\tT\t.\tPASS\t.\tGT\t0/0\t0/1\t0/0\n"

	vcf, err := OpenReader(strings.NewReader(input))
	require.NoError(t, err)

	sr := vcf.NewSiteReader()
	require.NotNil(t, sr.Read())
	assert.Nil(t, sr.Read())
	assert.Error(t, sr.Error())
}

func TestSiteReaderWhitelistSkipsBeforeDecoding(t *testing.T) {
	// The off-list record carries a malformed genotype; skipping must happen
	// before any genotype is decoded, so no error surfaces.
	input := testHeader +
		"1\t100\t.\tA\tT\t.\tPASS\t.\tGT\t0/2\t0/2\t0/2\t0/2\t0/2\t0/2\t0/2\t0/2\n" +
		diploidRecord("1", 200, hv[0])

	vcf, err := OpenReader(strings.NewReader(input))
	require.NoError(t, err)

	sr := vcf.NewSiteReader()
	sr.Sites = &SiteList{keys: []SiteKey{{Chromosome: "1", Position: 200}}}

	s := sr.Read()
	require.NoError(t, sr.Error())
	require.NotNil(t, s)
	assert.Equal(t, 200, s.Position)
	assert.Equal(t, 2, sr.SitesSeen)

	assert.Nil(t, sr.Read())
	assert.NoError(t, sr.Error())
}

func TestSiteReaderColumnRestriction(t *testing.T) {
	input := testHeader + diploidRecord("1", 100, hv[0])

	vcf, err := OpenReader(strings.NewReader(input))
	require.NoError(t, err)

	sr := vcf.NewSiteReader()
	// Keep samples 1-2 in population 0 and 7-8 in population 1.
	sr.Columns = []int{0, 0, -1, -1, -1, -1, 1, 1}
	sr.NPops = 2

	require.Equal(t, 4, sr.NIndividuals())

	s := sr.Read()
	require.NotNil(t, s)
	require.NoError(t, sr.Error())

	// hv[0] is 0,1,0,1,0,1,0,1: kept columns are 0,1 and 0,1.
	assert.Equal(t, []float64{0, 1, 0, 1}, s.Dosage)
	require.Len(t, s.Counts, 2)
	assert.Equal(t, 4.0, s.Counts[0].Haplotypes)
	assert.Equal(t, 1.0, s.Counts[0].Alt)
	assert.Equal(t, 4.0, s.Counts[1].Haplotypes)
	assert.Equal(t, 1.0, s.Counts[1].Alt)
}

func TestSiteReaderGenotypeErrorNamesSite(t *testing.T) {
	input := testHeader +
		"1\t100\t.\tA\tT\t.\tPASS\t.\tGT\t0/0\t0/1\t0/0\t0/1\t0/0\t0/1\t0/0\t0/1/0\n"

	vcf, err := OpenReader(strings.NewReader(input))
	require.NoError(t, err)

	sr := vcf.NewSiteReader()
	assert.Nil(t, sr.Read())
	require.Error(t, sr.Error())
	assert.Contains(t, sr.Error().Error(), "1:100")
}
