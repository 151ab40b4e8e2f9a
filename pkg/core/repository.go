package core

import "context"

// PartitionRepository is the persistence contract for one namespace
// partition's record table. Adhering to this interface keeps the
// catalog independent of the underlying storage mechanism (filesystem,
// SQL, object store).
//
// Implementations do not need to be goroutine-safe: the catalog
// serializes writers per partition.
type PartitionRepository interface {
	// Save persists a record. It creates if not exists, or replaces if
	// it does. Save must be atomic: a crash mid-write never leaves a
	// torn record on disk.
	Save(ctx context.Context, rec *CatalogRecord) error

	// Load retrieves a record by its id. Returns ErrNotFound if absent.
	Load(ctx context.Context, id string) (*CatalogRecord, error)

	// LoadAll returns every record in the partition. This is the
	// source of truth the indexes are rebuilt from.
	LoadAll(ctx context.Context) ([]*CatalogRecord, error)

	// Delete removes a record by its id. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error

	// Initialize ensures the underlying storage is ready (e.g. create
	// the partition directory). Idempotent.
	Initialize(ctx context.Context) error
}

// PartitionProvider opens repositories for namespace partitions and
// enumerates the partitions that already exist.
type PartitionProvider interface {
	// Open returns the repository for the given namespace, creating
	// nothing on disk until the repository's Initialize is called.
	Open(ctx context.Context, ns Namespace) (PartitionRepository, error)

	// List enumerates every namespace with an existing partition.
	List(ctx context.Context) ([]Namespace, error)
}

// EventType represents the kind of change observed in the store.
type EventType string

const (
	EventCreate  EventType = "CREATE"
	EventModify  EventType = "MODIFY"
	EventDelete  EventType = "DELETE"
	EventRebuild EventType = "REBUILD"
)

// Event represents an observed change, emitted by the watch worker.
type Event struct {
	Type      EventType
	Namespace Namespace
	ID        string
	Timestamp int64 // Unix timestamp
}
