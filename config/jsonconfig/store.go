package jsonconfig

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/bcdev/ocdb-client/config"
)

// Keys are stored flat. The delimiter only has to be something that never
// occurs in a parameter name.
const keyDelim = "\x00"

// FileStore is a config.Store backed by a JSON file.
type FileStore struct {
	path string
}

// NewFileStore returns a store that reads and writes the JSON file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Read() (config.Config, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		log.Debugf("No config file at %s, using empty config", s.path)
		return config.Config{}, nil
	}
	k := koanf.New(keyDelim)
	if err := k.Load(file.Provider(s.path), json.Parser()); err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", s.path)
	}
	log.Debugf("Read config file %s", s.path)
	return config.Config(k.Raw()), nil
}

func (s *FileStore) Write(cfg config.Config) error {
	k := koanf.New(keyDelim)
	if err := k.Load(confmap.Provider(cfg, ""), nil); err != nil {
		return errors.Wrap(err, "loading config for write")
	}
	data, err := k.Marshal(json.Parser())
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return errors.Wrapf(err, "creating config directory for %s", s.path)
	}
	if err := ioutil.WriteFile(s.path, data, 0600); err != nil {
		return errors.Wrapf(err, "writing config file %s", s.path)
	}
	log.Infof("Wrote config file %s", s.path)
	return nil
}
