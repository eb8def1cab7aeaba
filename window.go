package polyld

import (
	"fmt"

	"github.com/carbocation/pfx"
)

// Window is the bounded ring of candidate sites for LD pruning. Its capacity
// is the configured window size in SNPs; one slot is always reserved for the
// incoming site, so at most size-1 older candidates are live between
// insertions. Sites enter Pending, are marked Retained or Rejected by
// evaluation passes, and leave exactly once, at eviction, where a Retained
// disposition becomes final.
type Window struct {
	slots []*Site
	step  int
	maxR2 float64

	chrom     string
	filled    int // live sites older than the insert slot, 0..size-1
	insert    int // next slot to write
	sinceEval int // insertions since the last evaluation pass
}

// NewWindow returns a window of size SNPs evaluated every step insertions
// against the maxR2 threshold. Step must not exceed size.
func NewWindow(size, step int, maxR2 float64) (*Window, error) {
	if size < 1 {
		return nil, pfx.Err(fmt.Errorf("invalid window size %d: must be at least 1", size))
	}
	if step < 1 || step > size {
		return nil, pfx.Err(fmt.Errorf("invalid step size %d: must be between 1 and the window size", step))
	}
	if maxR2 < 0 || maxR2 > 1 {
		return nil, pfx.Err(fmt.Errorf("invalid r² threshold %v: must be between 0 and 1", maxR2))
	}

	return &Window{
		slots: make([]*Site, size),
		step:  step,
		maxR2: maxR2,
	}, nil
}

// Push buffers the next filtered site and returns any sites whose retained
// disposition became final, in original input order. A site on a new
// chromosome forces a full flush of the previous chromosome's window before
// it is buffered.
func (w *Window) Push(s *Site) []*Site {
	var out []*Site
	if w.filled > 0 && s.Chromosome != w.chrom {
		out = w.Flush()
	}
	w.chrom = s.Chromosome

	size := len(w.slots)
	w.slots[w.insert] = s

	// An evaluation covers the whole live window once the ring has built up
	// to capacity and step insertions have accumulated. When step equals the
	// window size the windows do not overlap, and the pass runs whenever the
	// newest insertion fills the last slot.
	if (w.filled == size-1 && w.sinceEval >= w.step) || (w.step == size && w.insert == size-1) {
		w.evaluate(w.insert-w.filled, w.filled+1)
		w.sinceEval = 0
	}

	if w.filled < size-1 {
		w.filled++
	}
	w.sinceEval++
	w.insert++
	if w.insert == size {
		w.insert = 0
	}

	// Evict the slot the next insertion will overwrite. Only here does a
	// disposition become final.
	if w.filled == size-1 {
		if old := w.slots[w.insert]; old != nil {
			if old.disposition == Retained {
				out = append(out, old)
			}
			w.slots[w.insert] = nil
		}
	}

	return out
}

// Flush evaluates the remaining live sites, drains the ring oldest-first,
// and resets the window. It returns the retained sites in input order.
func (w *Window) Flush() []*Site {
	w.evaluate(w.insert-w.filled, w.filled)

	var out []*Site
	size := len(w.slots)
	for i := 0; i < w.filled; i++ {
		idx := (w.insert - w.filled + i + size) % size
		if s := w.slots[idx]; s != nil && s.disposition == Retained {
			out = append(out, s)
		}
		w.slots[idx] = nil
	}

	w.filled = 0
	w.insert = 0
	w.sinceEval = 0
	w.chrom = ""

	return out
}

// evaluate runs one pass over count live sites starting at ring offset
// start, oldest first. For each site the later sites in the window are
// scanned in order; the first neighbor pair exceeding maxR2 rejects the
// older site and ends its scan. A site that survives the scan is confirmed
// Retained unless a previous pass already rejected it.
func (w *Window) evaluate(start, count int) {
	size := len(w.slots)
	for i := 0; i < count; i++ {
		si := w.slots[(start+i+size)%size]
		if si == nil {
			continue
		}

		violated := false
		for j := i + 1; j < count; j++ {
			sj := w.slots[(start+j+size)%size]
			if sj == nil || sj.Chromosome != si.Chromosome {
				continue
			}
			if R2(si.Dosage, sj.Dosage) > w.maxR2 {
				violated = true
				break
			}
		}

		if violated {
			si.disposition = Rejected
		} else if si.disposition != Rejected {
			si.disposition = Retained
		}
	}
}
