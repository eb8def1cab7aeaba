package polyld

// Disposition is the pruning state of a buffered site.
type Disposition int8

const (
	// Pending marks a site that has been buffered but never evaluated.
	Pending Disposition = iota
	// Retained marks a site that survived its most recent evaluation. A
	// later evaluation may still downgrade it to Rejected.
	Retained
	// Rejected is terminal: once a site violates the r² threshold against
	// any neighbor it is never promoted again.
	Rejected
)

func (d Disposition) String() string {
	switch d {
	case Pending:
		return "pending"
	case Retained:
		return "retained"
	case Rejected:
		return "rejected"

	default:
		return "Illegal selection"
	}
}

// Site is one biallelic record decoded to per-individual allele dosages.
type Site struct {
	Chromosome string
	Position   int
	ID         string
	Ref        byte
	Alt        byte

	// Dosage holds one alternate-allele count per individual, in column
	// order, with MissingDosage where the genotype is uncalled. Its length
	// is fixed across all sites of one input.
	Dosage []float64

	// Genotypes holds the raw GT field per individual, kept for echoing
	// retained records back out.
	Genotypes []string

	// Counts accumulates per-population haplotype and alternate-allele
	// totals. Nil unless the reader was given a population mapping.
	Counts []PopCounts

	// Running totals used by the missingness and allele-frequency filters.
	NMissing   int
	AltAlleles float64
	Haplotypes float64

	disposition Disposition
}

// Disposition reports the site's current pruning state.
func (s *Site) Disposition() Disposition {
	return s.disposition
}

// AltFrequency is the alternate-allele frequency over called haplotypes.
// NaN when every individual is missing.
func (s *Site) AltFrequency() float64 {
	return s.AltAlleles / s.Haplotypes
}
