package polyld

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

// SiteReader decodes genotype records from a VCF in file order. The input
// contract is a single monotonic pass: positions within one chromosome must
// be non-decreasing, and a chromosome, once left, must never recur. Any
// violation is a fatal format error, because downstream pruning decisions
// depend on strict ordering.
type SiteReader struct {
	// SitesSeen counts records decoded so far, including filtered ones.
	SitesSeen int

	// Sites optionally restricts reading to a pre-sorted whitelist.
	// Records not on the list are skipped before their genotypes are
	// decoded. Set before the first Read.
	Sites *SiteList

	// Columns optionally maps each genotype column to a population index,
	// with -1 marking columns to skip entirely. Nil keeps every column.
	// Set before the first Read.
	Columns []int

	// NPops is the number of populations Columns refers to.
	NPops int

	v    *VCF
	err  error
	nInd int // individuals per record, fixed by the first record

	lastChrom  string
	lastPos    int
	seenChroms map[string]bool
}

// NewSiteReader returns a reader over v's genotype records.
func (v *VCF) NewSiteReader() *SiteReader {
	return &SiteReader{
		v:          v,
		seenChroms: make(map[string]bool),
	}
}

func (sr *SiteReader) Error() error {
	return sr.err
}

// NIndividuals reports the fixed dosage-vector length. Zero until the first
// record has been read, unless a column restriction fixes it up front.
func (sr *SiteReader) NIndividuals() int {
	if sr.nInd == 0 && sr.Columns != nil {
		for _, p := range sr.Columns {
			if p >= 0 {
				sr.nInd++
			}
		}
	}

	return sr.nInd
}

// Read returns the next decoded site, or nil at end of input. Check Error
// after a nil return. Records excluded by the site whitelist are skipped
// without decoding their genotypes.
func (sr *SiteReader) Read() *Site {
	for {
		line, err := sr.v.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			sr.err = pfx.Err(err)
			return nil
		}
		atEOF := err == io.EOF

		line = strings.TrimRight(line, "\r\n")
		if line == "" || line[0] == '#' {
			if atEOF {
				return nil
			}
			continue
		}

		s, skipped, err := sr.parseRecord(line)
		if err != nil {
			sr.err = pfx.Err(err)
			return nil
		}
		if skipped {
			if atEOF {
				return nil
			}
			continue
		}

		return s
	}
}

// parseRecord decodes one tab-separated data line. skipped is true when the
// record is excluded by the site whitelist.
func (sr *SiteReader) parseRecord(line string) (s *Site, skipped bool, err error) {
	fields := strings.Split(line, "\t")
	if len(fields) <= fixedColumns {
		return nil, false, fmt.Errorf("record %q: expected at least %d columns", fields[0], fixedColumns+1)
	}

	chrom := fields[0]
	pos, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, false, fmt.Errorf("site %s: position %q is not numeric", chrom, fields[1])
	}

	if err := sr.checkOrder(chrom, pos); err != nil {
		return nil, false, err
	}

	sr.SitesSeen++

	if sr.Sites != nil && !sr.Sites.Contains(chrom, pos) {
		return nil, true, nil
	}

	if len(fields[3]) == 0 || len(fields[4]) == 0 {
		return nil, false, fmt.Errorf("site %s:%d: empty REF or ALT column", chrom, pos)
	}

	tokens := fields[fixedColumns:]
	if sr.Columns != nil && len(tokens) != len(sr.Columns) {
		return nil, false, fmt.Errorf("site %s:%d: %d genotype columns, header has %d", chrom, pos, len(tokens), len(sr.Columns))
	}

	nInd := sr.NIndividuals()
	if nInd == 0 {
		nInd = len(tokens)
	}

	s = &Site{
		Chromosome: chrom,
		Position:   pos,
		ID:         fields[2],
		Ref:        fields[3][0],
		Alt:        fields[4][0],
		Dosage:     make([]float64, 0, nInd),
		Genotypes:  make([]string, 0, nInd),
	}
	if sr.Columns != nil {
		s.Counts = make([]PopCounts, sr.NPops)
	}

	for col, token := range tokens {
		pop := -1
		if sr.Columns != nil {
			pop = sr.Columns[col]
			if pop < 0 {
				continue
			}
		}

		gt := token
		if i := strings.IndexByte(gt, ':'); i >= 0 {
			gt = gt[:i]
		}
		gt = strings.TrimRight(gt, "\r\n")

		g, err := ParseGenotype(token)
		if err != nil {
			return nil, false, fmt.Errorf("site %s:%d: %w", chrom, pos, err)
		}

		s.Genotypes = append(s.Genotypes, gt)
		if g.Missing {
			s.Dosage = append(s.Dosage, MissingDosage)
			s.NMissing++
			continue
		}

		s.Dosage = append(s.Dosage, g.Dosage)
		s.AltAlleles += g.Dosage
		s.Haplotypes += float64(g.Ploidy)
		if pop >= 0 {
			s.Counts[pop].Haplotypes += float64(g.Ploidy)
			s.Counts[pop].Alt += g.Dosage
		}
	}

	if sr.nInd == 0 {
		sr.nInd = len(s.Dosage)
	} else if len(s.Dosage) != sr.nInd {
		return nil, false, fmt.Errorf("site %s:%d: %d genotype columns, expected %d", chrom, pos, len(s.Dosage), sr.nInd)
	}

	return s, false, nil
}

// checkOrder enforces the single monotonic pass over chromosomes and
// positions.
func (sr *SiteReader) checkOrder(chrom string, pos int) error {
	if chrom == sr.lastChrom {
		if pos < sr.lastPos {
			return fmt.Errorf("VCF is not sorted at %s:%d: positions must be non-decreasing. Use: sort -k1,1 -k2,2n", chrom, pos)
		}
		sr.lastPos = pos
		return nil
	}

	if sr.seenChroms[chrom] {
		return fmt.Errorf("VCF is not sorted: chromosome %s recurs after other chromosomes. Use: sort -k1,1 -k2,2n", chrom)
	}
	sr.seenChroms[chrom] = true
	sr.lastChrom = chrom
	sr.lastPos = pos

	return nil
}
