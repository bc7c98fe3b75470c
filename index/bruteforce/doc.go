// Package bruteforce provides an index that answers queries by scoring every
// stored encoding. Ties keep build order, so a full query is a deterministic
// preference list.
package bruteforce
