package polyld

// WhichSQLiteDriver reports which SQLite driver this build uses for site
// index files.
func WhichSQLiteDriver() string {
	return whichSQLiteDriver
}
