package state

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/sisyaclass/analytics-console/core/session"
)

// FileStore persists serialized state under a directory, one file per key.
// Used in development so a console session survives a server restart.
type FileStore struct {
	dir string
}

var _ session.StateStore = (*FileStore)(nil)

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "creating state dir %s", dir)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileStore) LoadState(key string) ([]byte, error) {
	data, err := ioutil.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading state %s", key)
	}
	return data, nil
}

func (f *FileStore) SaveState(key string, data []byte) error {
	tmp := f.path(key) + ".tmp"
	if err := ioutil.WriteFile(tmp, data, 0o600); err != nil {
		return errors.Wrapf(err, "writing state %s", key)
	}
	if err := os.Rename(tmp, f.path(key)); err != nil {
		return errors.Wrapf(err, "writing state %s", key)
	}
	return nil
}

func (f *FileStore) ClearState(key string) error {
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "clearing state %s", key)
	}
	return nil
}
