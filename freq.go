package polyld

import (
	"bytes"
	"fmt"
	"io"

	"github.com/carbocation/pfx"
)

// OutputMode selects between per-individual genotype echo and the two
// aggregated per-population encodings.
type OutputMode uint32

const (
	OutputGenotypes OutputMode = iota
	OutputFrequencies
	OutputCounts
)

func (m OutputMode) String() string {
	switch m {
	case OutputGenotypes:
		return "genotypes"
	case OutputFrequencies:
		return "frequencies"
	case OutputCounts:
		return "counts"

	default:
		return "Illegal selection"
	}
}

// SiteWriter consumes each site the stream controller emits.
type SiteWriter interface {
	WriteHeader(v *VCF) error
	WriteSite(s *Site) error
}

// VCFWriter echoes retained records in VCF form: the original identifying
// columns, then every genotype's GT field tagged with a PASS filter value.
type VCFWriter struct {
	W io.Writer
}

// WriteHeader passes the input's header lines through unchanged.
func (w *VCFWriter) WriteHeader(v *VCF) error {
	for _, line := range v.HeaderLines {
		if _, err := fmt.Fprintln(w.W, line); err != nil {
			return pfx.Err(err)
		}
	}

	return nil
}

func (w *VCFWriter) WriteSite(s *Site) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s\t%d\t%s\t%c\t%c\t.\tPASS\t.\tGT:FT", s.Chromosome, s.Position, s.ID, s.Ref, s.Alt)
	for _, gt := range s.Genotypes {
		b.WriteByte('\t')
		b.WriteString(gt)
		b.WriteString(":PASS")
	}
	b.WriteByte('\n')

	_, err := w.W.Write(b.Bytes())

	return pfx.Err(err)
}

// FreqWriter writes one alternate-allele frequency per population per site.
type FreqWriter struct {
	W    io.Writer
	Pops *PopMap
}

// WriteHeader writes the population-name column header.
func (w *FreqWriter) WriteHeader(v *VCF) error {
	var b bytes.Buffer
	b.WriteByte('\t')
	for i, name := range w.Pops.Names {
		if i > 0 {
			b.WriteByte('\t')
		}
		b.WriteString(name)
	}
	b.WriteByte('\n')

	_, err := w.W.Write(b.Bytes())

	return pfx.Err(err)
}

func (w *FreqWriter) WriteSite(s *Site) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s:%d", s.Chromosome, s.Position)
	for _, c := range s.Counts {
		fmt.Fprintf(&b, "\t%f", c.AltFrequency())
	}
	b.WriteByte('\n')

	_, err := w.W.Write(b.Bytes())

	return pfx.Err(err)
}

// BayPassWriter writes per-population allele counts in the BayPass format:
// one line per site of space-separated "ref alt" count pairs. The locations
// of emitted sites go to a side info stream, headed by the population names.
type BayPassWriter struct {
	W    io.Writer
	Info io.Writer
	Pops *PopMap
}

// WriteHeader writes the population-name header to the info stream.
func (w *BayPassWriter) WriteHeader(v *VCF) error {
	var b bytes.Buffer
	b.WriteByte('#')
	for i, name := range w.Pops.Names {
		if i > 0 {
			b.WriteByte('\t')
		}
		b.WriteString(name)
	}
	b.WriteByte('\n')

	_, err := w.Info.Write(b.Bytes())

	return pfx.Err(err)
}

func (w *BayPassWriter) WriteSite(s *Site) error {
	var b bytes.Buffer
	for i, c := range s.Counts {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.0f %.0f", c.RefCount(), c.Alt)
	}
	b.WriteByte('\n')

	if _, err := w.W.Write(b.Bytes()); err != nil {
		return pfx.Err(err)
	}
	if _, err := fmt.Fprintf(w.Info, "%s\t%d\n", s.Chromosome, s.Position); err != nil {
		return pfx.Err(err)
	}

	return nil
}
