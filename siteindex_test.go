package polyld

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteIndexRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pruned.ldi")

	ix, err := CreateSiteIndex(path, "input.vcf.gz")
	require.NoError(t, err)

	sites := []*Site{
		{Chromosome: "2", Position: 50, ID: "rs3", Ref: 'G', Alt: 'C'},
		{Chromosome: "1", Position: 100, ID: "rs1", Ref: 'A', Alt: 'T'},
		{Chromosome: "1", Position: 250, ID: "rs2", Ref: 'C', Alt: 'G'},
	}
	for _, s := range sites {
		require.NoError(t, ix.AddSite(s))
	}
	require.NoError(t, ix.Close())

	reopened, err := OpenSiteIndex(path)
	require.NoError(t, err)
	defer reopened.Close()

	require.NotNil(t, reopened.Metadata)
	assert.Equal(t, "input.vcf.gz", reopened.Metadata.SourceFile)

	list, err := reopened.SiteList()
	require.NoError(t, err)
	require.Equal(t, 3, list.Len())

	// The list comes back sorted regardless of insertion order.
	assert.True(t, list.Contains("1", 100))
	assert.True(t, list.Contains("1", 250))
	assert.True(t, list.Contains("2", 50))
}

func TestReadSiteListFromIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pruned.ldi")

	ix, err := CreateSiteIndex(path, "input.vcf")
	require.NoError(t, err)
	require.NoError(t, ix.AddSite(&Site{Chromosome: "1", Position: 100, Ref: 'A', Alt: 'T'}))
	require.NoError(t, ix.Close())

	list, err := ReadSiteList(path)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Len())
	assert.True(t, list.Contains("1", 100))
}
