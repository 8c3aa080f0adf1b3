// Package store defines the contract with the remote knowledge store:
// datasets, documents, run statuses and retrieval results, plus the Store
// interface the rest of the library is written against.
//
// The remote store is the single source of truth for everything it holds.
// Document run statuses are mutated exclusively by the store and only
// observed here; duplicate detection must always query the store fresh
// rather than act on a cached snapshot.
//
// The HTTP implementation lives in store/ragflow; a scriptable test double
// lives in store/mock.
package store
