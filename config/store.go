// Package config holds the locally persisted client configuration.
//
// A configuration is a flat map of parameter names to values. Stores hand out
// a fresh copy on every Read, so callers may modify the result freely and
// persist it with Write.
package config

import (
	"os"
	"path/filepath"
)

const (
	// Parameter names understood by the client.
	ServerURL   = "server_url"
	PasswordKey = "password-key"

	DefaultDirName  = ".eocdb"
	DefaultFileName = "eocdb-client.json"
)

// Config maps parameter names to values.
type Config map[string]interface{}

// Copy returns a shallow copy of c. A nil Config copies to an empty one.
func (c Config) Copy() Config {
	cp := make(Config, len(c))
	for k, v := range c {
		cp[k] = v
	}
	return cp
}

// Store reads and writes a Config.
type Store interface {
	Read() (Config, error)
	Write(Config) error
}

// DefaultPath returns the well-known location of the client configuration,
// ~/.eocdb/eocdb-client.json. If the home directory cannot be determined the
// path is relative to the working directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(DefaultDirName, DefaultFileName)
	}
	return filepath.Join(home, DefaultDirName, DefaultFileName)
}
