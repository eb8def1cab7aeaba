package polyld

import (
	"fmt"
	"strings"

	"github.com/carbocation/pfx"
)

// MissingAllele is the character that marks an uncalled genotype.
const MissingAllele = '.'

// MissingDosage is the sentinel stored in a dosage vector where an
// individual's genotype is uncalled.
const MissingDosage = -1

// Genotype represents the decoded call for one individual at one site:
// the individual's ploidy and the count of alternate alleles carried.
type Genotype struct {
	Ploidy  int
	Dosage  float64
	Missing bool
}

// ploidyForLength maps the structural length of a GT field to its ploidy.
// The encoding is one single-character allele plus one separator per copy:
// "0/1" is 3 characters (diploid), "0/1/0/1" is 7 (tetraploid), and so on
// up to octoploid at 15.
func ploidyForLength(n int) int {
	switch n {
	case 3:
		return 2
	case 7:
		return 4
	case 11:
		return 6
	case 15:
		return 8
	}

	return 0
}

// ParseGenotype decodes one per-individual genotype token. Only the GT field
// before the first ':' is read; the rest of the token is ignored. A token
// beginning with MissingAllele decodes as missing. Every allele character
// must be '0' or '1' (biallelic sites only); the separator characters are
// not inspected, so both '/' and '|' notation are accepted.
func ParseGenotype(token string) (Genotype, error) {
	if i := strings.IndexByte(token, ':'); i >= 0 {
		token = token[:i]
	}
	token = strings.TrimRight(token, "\r\n")

	if len(token) > 0 && token[0] == MissingAllele {
		return Genotype{Dosage: MissingDosage, Missing: true}, nil
	}

	ploidy := ploidyForLength(len(token))
	if ploidy == 0 {
		return Genotype{}, pfx.Err(fmt.Errorf("genotype %q: allowed ploidy-levels are 2, 4, 6, and 8", token))
	}

	g := Genotype{Ploidy: ploidy}
	for i := 0; i <= 2*ploidy-2; i += 2 {
		switch token[i] {
		case '1':
			g.Dosage++
		case '0':
		default:
			return Genotype{}, pfx.Err(fmt.Errorf("genotype %q: unknown allele %q, only 0 and 1 are allowed", token, token[i]))
		}
	}

	return g, nil
}
