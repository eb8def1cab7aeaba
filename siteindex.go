package polyld

import (
	"fmt"
	"os"
	"time"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
)

// SiteIndex is a SQLite index of pruned sites (conventionally a ".ldi"
// file). A pruning run can record every retained site into one, and a later
// run can consume it as its site whitelist.
type SiteIndex struct {
	DB       *sqlx.DB
	Metadata *IndexMetadata
}

func (ix *SiteIndex) Close() error {
	return ix.DB.Close()
}

// IndexedSite conforms to the rows of the "Site" table of an index file,
// and can be easily parsed with sqlx.
type IndexedSite struct {
	Chromosome string `db:"chromosome"`
	Position   int    `db:"position"`
	RSID       string `db:"rsid"`
	Ref        string `db:"ref"`
	Alt        string `db:"alt"`
}

// IndexMetadata conforms to the rows of the "Metadata" table, describing
// the input the index was built from.
type IndexMetadata struct {
	SourceFile string `db:"source_file"`
	FileSize   int64  `db:"file_size"`
	CreatedAt  Time   `db:"created_at"`
}

// Time exists to facilitate time parsing from the Metadata table, because
// SQLite stores time as either unixtime integers or text strings.
type Time time.Time

func (t *Time) Scan(v interface{}) error {
	switch which := v.(type) {
	case int64:
		*t = Time(time.Unix(which, 0))
		return nil
	case int:
		*t = Time(time.Unix(int64(which), 0))
		return nil
	case []byte:
		vt, err := time.Parse("2006-01-02 15:04:05", string(which))
		if err != nil {
			return err
		}
		*t = Time(vt)
		return nil
	}

	return fmt.Errorf("No appropriate type could be found to decode %v", v)
}

const siteIndexSchema = `
CREATE TABLE IF NOT EXISTS Site (
	chromosome TEXT NOT NULL,
	position INTEGER NOT NULL,
	rsid TEXT,
	ref TEXT,
	alt TEXT
);
CREATE INDEX IF NOT EXISTS site_chrom_pos ON Site (chromosome, position);
CREATE TABLE IF NOT EXISTS Metadata (
	source_file TEXT,
	file_size INTEGER,
	created_at INTEGER
);`

// CreateSiteIndex creates an empty site index at path, recording sourceFile
// in its metadata. An existing file at path is reused; its tables are
// created only if absent.
func CreateSiteIndex(path, sourceFile string) (*SiteIndex, error) {
	ix, err := OpenSiteIndex(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if _, err := ix.DB.Exec(siteIndexSchema); err != nil {
		ix.Close()
		return nil, pfx.Err(err)
	}

	var size int64
	if info, err := os.Stat(sourceFile); err == nil {
		size = info.Size()
	}
	if _, err := ix.DB.Exec(
		`INSERT INTO Metadata (source_file, file_size, created_at) VALUES (?, ?, ?)`,
		sourceFile, size, time.Now().Unix(),
	); err != nil {
		ix.Close()
		return nil, pfx.Err(err)
	}

	return ix, nil
}

// AddSite appends one retained site to the index.
func (ix *SiteIndex) AddSite(s *Site) error {
	_, err := ix.DB.Exec(
		`INSERT INTO Site (chromosome, position, rsid, ref, alt) VALUES (?, ?, ?, ?, ?)`,
		s.Chromosome, s.Position, s.ID, string(s.Ref), string(s.Alt),
	)

	return pfx.Err(err)
}

// SiteList reads the indexed sites in sorted order, for use as a pruning
// whitelist.
func (ix *SiteIndex) SiteList() (*SiteList, error) {
	var keys []SiteKey
	if err := ix.DB.Select(&keys, `SELECT chromosome, position FROM Site ORDER BY chromosome ASC, position ASC`); err != nil {
		return nil, pfx.Err(err)
	}

	return &SiteList{keys: keys}, nil
}
