package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"math/big"
	"sort"
	"strings"

	"github.com/viant/pprl/pprlerr"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/sha3"
)

// Func constructs a fresh hash.
type Func func() hash.Hash

// Third is the digest the triple hashing scheme uses for its third hash.
const Third = "MD2"

type entry struct {
	name string
	fn   Func
}

var entries = []entry{
	{"MD2", NewMD2},
	{"MD4", md4.New},
	{"MD5", md5.New},
	{"SHA-1", sha1.New},
	{"SHA-224", sha256.New224},
	{"SHA-256", sha256.New},
	{"SHA-384", sha512.New384},
	{"SHA-512", sha512.New},
	{"SHA-512/256", sha512.New512_256},
	{"SHA3-224", sha3.New224},
	{"SHA3-256", sha3.New256},
	{"SHA3-384", sha3.New384},
	{"SHA3-512", sha3.New512},
	{"BLAKE2b-256", unkeyed(blake2b.New256)},
	{"BLAKE2b-512", unkeyed(blake2b.New512)},
	{"BLAKE2s-256", unkeyed(blake2s.New256)},
	{"BLAKE3", func() hash.Hash { return blake3.New() }},
}

var registry = func() map[string]entry {
	m := make(map[string]entry, len(entries))
	for _, e := range entries {
		m[canonical(e.name)] = e
	}
	return m
}()

// unkeyed adapts the BLAKE2 constructors, which only fail on an oversized key.
func unkeyed(fn func(key []byte) (hash.Hash, error)) Func {
	return func() hash.Hash {
		h, err := fn(nil)
		if err != nil {
			panic(err)
		}
		return h
	}
}

// canonical folds case and drops separators so "sha-256", "SHA256" and
// "Sha_256" name the same algorithm.
func canonical(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)
}

// Lookup returns the constructor of the named algorithm. Names are matched
// case-insensitively, ignoring dashes and underscores. An unknown name yields
// an ErrConfig error.
func Lookup(name string) (Func, error) {
	e, ok := registry[canonical(name)]
	if !ok {
		return nil, pprlerr.Config("digest: unknown algorithm %q", name)
	}
	return e.fn, nil
}

// Name returns the display name of the algorithm matching name, or "" when it
// is not registered.
func Name(name string) string {
	return registry[canonical(name)].name
}

// Names returns the display names of all registered algorithms, sorted.
func Names() []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.name)
	}
	sort.Strings(out)
	return out
}

// Sum hashes data with a fresh hash from fn.
func Sum(fn Func, data []byte) []byte {
	h := fn()
	h.Write(data)
	return h.Sum(nil)
}

// Int returns the digest of data read as an unsigned big-endian integer.
func Int(fn Func, data []byte) *big.Int {
	return new(big.Int).SetBytes(Sum(fn, data))
}

// Mod returns the digest of data reduced modulo m, m > 0.
func Mod(fn Func, data []byte, m uint64) uint64 {
	v := Int(fn, data)
	return v.Mod(v, new(big.Int).SetUint64(m)).Uint64()
}
