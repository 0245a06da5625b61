package repository

import "context"

// CollectionStorage is the single persistence slot holding the serialized
// task collection. Read returns nil when nothing has been stored yet.
type CollectionStorage interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, payload []byte) error
}

// Pinger is implemented by backends that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
