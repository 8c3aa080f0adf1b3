// Package mock provides a test double for the store.Store interface.
//
// MockStore keeps datasets and documents in memory, records every call for
// order and count assertions, and allows per-method behavior injection via
// function fields. It is exported so downstream users of the library can
// test against the same contract.
package mock
