package archive

import "context"

// Storage is a flat blob store for archived result snapshots. Keys are
// relative slash-separated paths; backends map them onto their own
// namespace (a directory tree, an object-store prefix).
type Storage interface {
	Write(ctx context.Context, key string, data []byte) error
	Read(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)

	// List returns every key under the prefix, relative to the store root.
	List(ctx context.Context, prefix string) ([]string, error)

	Delete(ctx context.Context, key string) error
}
