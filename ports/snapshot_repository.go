package ports

import "context"

// SnapshotRepository stores one opaque JSON blob per named slot
type SnapshotRepository interface {
	// Load returns the blob and whether the slot existed
	Load(ctx context.Context, slot string) ([]byte, bool, error)
	// Save replaces the blob in the slot
	Save(ctx context.Context, slot string, payload []byte) error
	Close() error
}
