package gtfsdb

import "transitgeo.cartes.app/internal/appconf"

// Config holds configuration options for the Client
type Config struct {
	DBPath  string // Path to SQLite database file, or ":memory:"
	Env     appconf.Environment
	verbose bool
}

func NewConfig(dbPath string, env appconf.Environment, verbose bool) Config {
	return Config{
		DBPath:  dbPath,
		Env:     env,
		verbose: verbose,
	}
}

func (c Config) inMemory() bool {
	return c.DBPath == ":memory:"
}

// dsn applies per-connection pragmas for file databases. Readers keep
// working on the previous snapshot while an import commits.
func (c Config) dsn() string {
	if c.inMemory() {
		return c.DBPath
	}
	return "file:" + c.DBPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}
