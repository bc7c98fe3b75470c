package store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/viant/pprl/bloom"
	"github.com/viant/pprl/pprlerr"
)

var (
	snapshotEncMode cbor.EncMode
	snapshotDecMode cbor.DecMode
)

func init() {
	var err error
	snapshotEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("store: CBOR encoder initialization failed: " + err.Error())
	}
	snapshotDecMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("store: CBOR decoder initialization failed: " + err.Error())
	}
}

// snapshot is the on-disk form of all encodings of one fingerprint.
type snapshot struct {
	Fingerprint string            `cbor:"1,keyasint"`
	Filters     map[string][]byte `cbor:"2,keyasint"`
}

var fingerprintPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// FileStore keeps one zstd-compressed CBOR snapshot per fingerprint in a
// directory.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a store rooted at dir, creating it when missing.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, pprlerr.Config("store: file store directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Path returns the snapshot file of fingerprint.
func (s *FileStore) Path(fingerprint string) string {
	return filepath.Join(s.dir, fingerprint+".cbor.zst")
}

func (s *FileStore) read(fingerprint string) (*snapshot, error) {
	if !fingerprintPattern.MatchString(fingerprint) {
		return nil, pprlerr.InvalidArgument("store: invalid fingerprint %q", fingerprint)
	}
	f, err := os.Open(s.Path(fingerprint))
	if os.IsNotExist(err) {
		return &snapshot{Fingerprint: fingerprint, Filters: map[string][]byte{}}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("store: zstd reader: %w", err)
	}
	defer dec.Close()
	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("store: read snapshot %s: %w", s.Path(fingerprint), err)
	}
	snap := &snapshot{}
	if err := snapshotDecMode.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("store: decode snapshot %s: %w", s.Path(fingerprint), err)
	}
	if snap.Fingerprint != fingerprint {
		return nil, fmt.Errorf("store: snapshot %s holds fingerprint %q", s.Path(fingerprint), snap.Fingerprint)
	}
	if snap.Filters == nil {
		snap.Filters = map[string][]byte{}
	}
	return snap, nil
}

// Load implements Store.
func (s *FileStore) Load(_ context.Context, fingerprint string, keys []string) (map[string]*bloom.Encoding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.read(fingerprint)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*bloom.Encoding, len(keys))
	for _, k := range keys {
		blob, ok := snap.Filters[k]
		if !ok {
			continue
		}
		e, err := bloom.DecodeFilter(blob)
		if err != nil {
			return nil, fmt.Errorf("store: record %q: %w", k, err)
		}
		out[k] = e
	}
	return out, nil
}

// Count implements Store.
func (s *FileStore) Count(_ context.Context, fingerprint string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.read(fingerprint)
	if err != nil {
		return 0, err
	}
	return len(snap.Filters), nil
}

// Save merges encodings into the snapshot and rewrites it atomically.
func (s *FileStore) Save(ctx context.Context, fingerprint string, encodings map[string]*bloom.Encoding) error {
	if len(encodings) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.read(fingerprint)
	if err != nil {
		return err
	}
	for k, e := range encodings {
		if err := ctx.Err(); err != nil {
			return err
		}
		blob, err := bloom.EncodeFilter(e)
		if err != nil {
			return err
		}
		if blob == nil {
			return pprlerr.InvalidArgument("store: encoding of %q is nil", k)
		}
		snap.Filters[k] = blob
	}
	data, err := snapshotEncMode.Marshal(snap)
	if err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("store: zstd writer: %w", err)
	}
	if _, err := enc.Write(data); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, fingerprint+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.Path(fingerprint))
}

// Close implements Store.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
