package job

import "context"

// Store persists job records. The orchestration layer depends only on this
// get/put capability, never on a concrete store, so single-instance
// deployments can run on the in-process map while multi-instance deployments
// point at a shared database.
//
// Put must behave as an atomic whole-record replace: concurrent readers may
// observe a slightly stale record, never a partially updated one. Get returns
// (nil, nil) for unknown ids.
type Store interface {
	Get(ctx context.Context, id string) (*Record, error)
	Put(ctx context.Context, rec *Record) error
}
