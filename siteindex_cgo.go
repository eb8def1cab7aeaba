//go:build cgo

package polyld

// If cgo is enabled, we will use the mattn cgo sqlite3 driver. It is faster
// than the modernc sqlite driver.

import (
	"strings"

	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3"
)

const whichSQLiteDriver = "sqlite3"

// OpenSiteIndex opens the site index at path with the cgo sqlite3 driver.
func OpenSiteIndex(path string) (*SiteIndex, error) {
	ix := &SiteIndex{
		Metadata: &IndexMetadata{},
	}

	// URI filenames have to begin with 'file:'; see
	// https://www.sqlite.org/c3ref/open.html . It seems that sqlite3 permitted
	// URI filenames without the file: prefix, but that is not standard.
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, err
	}
	ix.DB = db

	// Not all index files have metadata; ignore any error
	_ = ix.DB.Get(ix.Metadata, "SELECT * FROM Metadata LIMIT 1")

	return ix, nil
}
