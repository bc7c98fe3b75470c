// Package digest resolves the message-digest algorithms the Bloom filter
// hashing schemes are configured with, and converts digests into unsigned
// integers.
package digest
