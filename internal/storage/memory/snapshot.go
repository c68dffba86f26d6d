package memory

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"

	"github.com/sweetsalty/backend/internal/domain/cart"
)

// unmarshalJSON is the single JSON entry point for the store's document
// format.
func unmarshalJSON(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// LoadFile replaces the store's contents with the snapshot at path. Files
// ending in .gz are decompressed transparently. A missing file leaves the
// store untouched so a fresh deployment starts from the seed menu.
func (s *Store) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(err, "open snapshot")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrap(err, "open gzip snapshot")
		}
		defer zr.Close()
		r = zr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "read snapshot")
	}

	var db database
	if err := unmarshalJSON(data, &db); err != nil {
		return errors.Wrap(err, "decode snapshot")
	}
	if db.Carts == nil {
		db.Carts = make(map[string]cart.Cart)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.db = db
	return nil
}

// SaveFile writes the full document to path atomically (write to a temp file
// in the same directory, then rename). Files ending in .gz are compressed
// with pgzip.
func (s *Store) SaveFile(path string) error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.db, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return errors.Wrap(err, "encode snapshot")
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return errors.Wrap(err, "create temp snapshot")
	}
	defer os.Remove(tmp.Name())

	var w io.Writer = tmp
	var zw *pgzip.Writer
	if strings.HasSuffix(path, ".gz") {
		zw = pgzip.NewWriter(tmp)
		w = zw
	}
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write snapshot")
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			tmp.Close()
			return errors.Wrap(err, "close gzip snapshot")
		}
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp snapshot")
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "replace snapshot")
	}
	return nil
}
