package polyld

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/carbocation/pfx"
)

const (
	// chromHeader names the column-header line of a VCF. Everything after
	// its ninth column is a sample ID.
	chromHeader = "#CHROM"

	// fixedColumns is the number of per-site columns before the first
	// genotype column (CHROM, POS, ID, REF, ALT, QUAL, FILTER, INFO,
	// FORMAT).
	fixedColumns = 9
)

// VCF is the main object used for reading variant call files. Open consumes
// the header block; genotype records are then streamed through a SiteReader.
type VCF struct {
	FilePath    string
	Compression Compression

	// HeaderLines holds every header line in file order, including the
	// #CHROM line, without trailing newlines.
	HeaderLines []string

	// SampleIDs holds the individual names from the #CHROM line, in column
	// order. Empty when the file carries no #CHROM line.
	SampleIDs []string
	NSamples  int

	file   *os.File
	reader *bufio.Reader
}

// Open attempts to read a VCF located at path, transparently decompressing
// gzip or zstandard input by filename extension. If successful, this returns
// a new VCF object with its header parsed. Otherwise, it returns an error.
func Open(path string) (*VCF, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	r, comp, err := decompressor(file, path)
	if err != nil {
		file.Close()
		return nil, pfx.Err(err)
	}

	v := &VCF{
		FilePath:    path,
		Compression: comp,
		file:        file,
		reader:      bufio.NewReaderSize(r, 1<<20),
	}
	if err := v.readHeader(); err != nil {
		file.Close()
		return nil, pfx.Err(err)
	}

	return v, nil
}

// OpenReader reads a VCF from an already-open stream. The caller is
// responsible for any decompression and for closing the underlying reader.
func OpenReader(r io.Reader) (*VCF, error) {
	v := &VCF{
		reader: bufio.NewReaderSize(r, 1<<20),
	}
	if err := v.readHeader(); err != nil {
		return nil, pfx.Err(err)
	}

	return v, nil
}

func (v *VCF) Close() error {
	if v.file != nil {
		return v.file.Close()
	}

	return nil
}

// readHeader consumes the leading header block: every line starting with
// '#', plus any blank lines, up to the first genotype record. The first
// data line is left unread in the buffer.
func (v *VCF) readHeader() error {
	for {
		peeked, err := v.reader.Peek(1)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return pfx.Err(err)
		}
		if peeked[0] != '#' && peeked[0] != '\n' {
			return nil
		}

		line, err := v.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return pfx.Err(err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}

		v.HeaderLines = append(v.HeaderLines, line)
		if strings.HasPrefix(line, chromHeader) {
			fields := strings.Split(line, "\t")
			if len(fields) > fixedColumns {
				v.SampleIDs = fields[fixedColumns:]
				v.NSamples = len(v.SampleIDs)
			}
		}

		if err == io.EOF {
			return nil
		}
	}
}
