package polyld

import (
	"fmt"

	"github.com/carbocation/pfx"
)

// Pruner streams a VCF through the site, missingness, and allele-frequency
// filters and, when a window is configured, the sliding-window LD pruner.
// Memory use is bounded by the window: one pass, no lookback beyond it.
type Pruner struct {
	VCF    *VCF
	Writer SiteWriter

	// Sites optionally restricts the run to a pre-sorted whitelist.
	Sites *SiteList

	// Columns and NPops optionally restrict genotype columns to mapped
	// individuals and enable per-population aggregation.
	Columns []int
	NPops   int

	// Window buffers candidates for LD pruning. Nil disables pruning: every
	// site passing the filters is emitted immediately.
	Window *Window

	// Index optionally records every emitted site.
	Index *SiteIndex

	// Mis is the missing-data threshold: a site is dropped when its missing
	// fraction exceeds 1-Mis, or when every individual is missing. MAF is
	// the minor-allele-frequency floor: a site is dropped when its
	// alternate-allele frequency falls outside [MAF, 1-MAF].
	Mis float64
	MAF float64

	// Kept counts emitted sites.
	Kept int
}

// Run drains the input and writes every emitted site in original order.
func (p *Pruner) Run() error {
	if err := p.Writer.WriteHeader(p.VCF); err != nil {
		return pfx.Err(err)
	}

	sr := p.VCF.NewSiteReader()
	sr.Sites = p.Sites
	sr.Columns = p.Columns
	sr.NPops = p.NPops

	for {
		s := sr.Read()
		if s == nil {
			break
		}

		nInd := float64(sr.NIndividuals())
		if float64(s.NMissing)/nInd > 1-p.Mis || s.NMissing == sr.NIndividuals() {
			continue
		}
		if f := s.AltFrequency(); f < p.MAF || f > 1-p.MAF {
			continue
		}

		if p.Window == nil {
			if err := p.emit(s); err != nil {
				return pfx.Err(err)
			}
			continue
		}
		for _, out := range p.Window.Push(s) {
			if err := p.emit(out); err != nil {
				return pfx.Err(err)
			}
		}
	}
	if err := sr.Error(); err != nil {
		return pfx.Err(err)
	}

	if p.Window != nil {
		for _, out := range p.Window.Flush() {
			if err := p.emit(out); err != nil {
				return pfx.Err(err)
			}
		}
	}

	return nil
}

func (p *Pruner) emit(s *Site) error {
	if err := p.Writer.WriteSite(s); err != nil {
		return pfx.Err(err)
	}
	if p.Index != nil {
		if err := p.Index.AddSite(s); err != nil {
			return pfx.Err(fmt.Errorf("indexing site %s:%d: %w", s.Chromosome, s.Position, err))
		}
	}
	p.Kept++

	return nil
}
