package polyld

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/carbocation/pfx"
)

// PopCounts accumulates called-haplotype and alternate-allele totals for one
// population at one site.
type PopCounts struct {
	Haplotypes float64
	Alt        float64
}

// RefCount is the reference-allele count.
func (c PopCounts) RefCount() float64 {
	return c.Haplotypes - c.Alt
}

// AltFrequency is the alternate-allele frequency. NaN when no haplotype in
// the population was called.
func (c PopCounts) AltFrequency() float64 {
	return c.Alt / c.Haplotypes
}

// PopMap assigns individuals to populations. Population indexes follow
// first appearance in the input file.
type PopMap struct {
	Names        []string
	byIndividual map[string]int
}

// ReadPopMap loads a tab-delimited file of individual-ID, population-ID
// pairs. Blank lines and '#' comments are skipped.
func ReadPopMap(path string) (*PopMap, error) {
	rc, err := openMaybeCompressed(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rc.Close()

	m := &PopMap{byIndividual: make(map[string]int)}
	popIdx := make(map[string]int)

	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.SplitN(line, "\t", 3)
		if len(fields) < 2 {
			return nil, pfx.Err(fmt.Errorf("population file %s: line %q: expected individual and population columns", path, line))
		}

		ind, pop := fields[0], fields[1]
		idx, ok := popIdx[pop]
		if !ok {
			idx = len(m.Names)
			popIdx[pop] = idx
			m.Names = append(m.Names, pop)
		}
		m.byIndividual[ind] = idx
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	if len(m.byIndividual) == 0 {
		return nil, pfx.Err(fmt.Errorf("population file %s lists no individuals", path))
	}

	return m, nil
}

// NPops reports the number of distinct populations.
func (m *PopMap) NPops() int {
	return len(m.Names)
}

// NIndividuals reports the number of mapped individuals.
func (m *PopMap) NIndividuals() int {
	return len(m.byIndividual)
}

// ColumnIndexes maps VCF sample columns to population indexes, with -1 for
// samples absent from the map. matched reports how many columns were
// assigned; fewer matches than mapped individuals means the population file
// names samples the VCF does not carry, which callers may warn about. Zero
// matches is an error.
func (m *PopMap) ColumnIndexes(sampleIDs []string) (cols []int, matched int, err error) {
	cols = make([]int, len(sampleIDs))
	for i, id := range sampleIDs {
		if idx, ok := m.byIndividual[id]; ok {
			cols[i] = idx
			matched++
		} else {
			cols[i] = -1
		}
	}

	if matched == 0 {
		return nil, 0, pfx.Err(fmt.Errorf("individuals in the population file were not found in the VCF"))
	}

	return cols, matched, nil
}
