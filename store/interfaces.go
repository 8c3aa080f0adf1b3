package store

import "context"

// Store is the remote knowledge-store capability consumed by the ingestion
// pipeline. Implementations must be safe for concurrent use; the pipeline
// itself issues calls strictly sequentially, but downstream consumers
// (retrieval, grid search) may fan out.
type Store interface {
	// FindOrCreateDataset looks a dataset up by name and creates it if no
	// dataset with that exact name exists. embeddingModel is only used on
	// creation; pass "" to accept the store default.
	FindOrCreateDataset(ctx context.Context, name, embeddingModel string) (*Dataset, error)

	// Upload submits raw bytes under a display name. The store assigns the
	// document identifier asynchronously; it is not returned here and must
	// be recovered via ListDocuments.
	Upload(ctx context.Context, dataset *Dataset, displayName string, blob []byte) error

	// ListDocuments returns the documents matching opts, with their current
	// run status and progress. An empty result is not an error.
	ListDocuments(ctx context.Context, dataset *Dataset, opts ListOptions) ([]Document, error)

	// DeleteDocument removes a single document by identifier.
	DeleteDocument(ctx context.Context, dataset *Dataset, id string) error

	// TriggerParse asks the store to begin asynchronous parsing of the
	// given document ids. Completion is observed via ListDocuments, never
	// reported by this call.
	TriggerParse(ctx context.Context, dataset *Dataset, documentIDs []string) error

	// Retrieve runs a similarity query across the given datasets and
	// returns the matching chunks, best first.
	Retrieve(ctx context.Context, opts RetrieveOptions) ([]Chunk, error)
}
