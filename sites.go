package polyld

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/carbocation/pfx"
)

// SiteKey identifies one site by chromosome and position.
type SiteKey struct {
	Chromosome string `db:"chromosome"`
	Position   int    `db:"position"`
}

// SiteList is a pre-sorted whitelist of sites. Lookups ride a single
// forward cursor, so they must be issued in the same sorted order as the
// list itself (chromosome lexical, position ascending) — the order the VCF
// is required to follow anyway.
type SiteList struct {
	keys   []SiteKey
	cursor int
}

// ReadSiteList loads a whitelist from path. A plain (optionally compressed)
// tab-delimited file lists chromosome and position per line; a ".ldi" path
// is read as a pruning site index instead. The text format must be sorted
// with `sort -k1,1 -k2,2n`.
func ReadSiteList(path string) (*SiteList, error) {
	if strings.HasSuffix(path, ".ldi") {
		ix, err := OpenSiteIndex(path)
		if err != nil {
			return nil, pfx.Err(err)
		}
		defer ix.Close()

		return ix.SiteList()
	}

	rc, err := openMaybeCompressed(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer rc.Close()

	list := &SiteList{}
	scanner := bufio.NewScanner(rc)
	scanner.Buffer(make([]byte, 0, 1<<16), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' {
			continue
		}

		fields := strings.SplitN(line, "\t", 3)
		if len(fields) < 2 {
			return nil, pfx.Err(fmt.Errorf("site file %s: line %q: expected chromosome and position columns", path, line))
		}
		pos, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, pfx.Err(fmt.Errorf("site file %s: position %q is not numeric", path, fields[1]))
		}

		key := SiteKey{Chromosome: fields[0], Position: pos}
		if n := len(list.keys); n > 0 {
			prev := list.keys[n-1]
			if compareSiteKey(key.Chromosome, key.Position, prev.Chromosome, prev.Position) < 0 {
				return nil, pfx.Err(fmt.Errorf("site file %s is not sorted. Use: sort -k1,1 -k2,2n %s > sorted.sites", path, path))
			}
		}
		list.keys = append(list.keys, key)
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	return list, nil
}

// Len reports the number of listed sites.
func (l *SiteList) Len() int {
	return len(l.keys)
}

// Contains reports whether chrom:pos is on the list. The cursor never
// rewinds: entries before the queried site are consumed permanently.
func (l *SiteList) Contains(chrom string, pos int) bool {
	for l.cursor < len(l.keys) {
		key := l.keys[l.cursor]
		c := CompareChrom(chrom, key.Chromosome)
		if c == 0 {
			if pos == key.Position {
				return true
			}
			if pos < key.Position {
				return false
			}
		} else if c < 0 {
			return false
		}
		l.cursor++
	}

	return false
}
