// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the virtual-directory engine needs: prefix/delimiter listing,
// existence probes, writes, server-side copies and single/batch deletes.
// This abstraction supports both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it
// easier to mock storage interactions for unit testing (as seen in
// core/storage/mocks).
//
// # Pool
//
// Owners may use different credentials, so clients are not ambient globals.
// The Pool hands out a client per owner through a CredentialResolver and
// reuses it for a bounded TTL. The application root owns the pool and passes
// it into the listing and reconciliation components.
//
// # Usage
//
//	pool := storage.NewPool(storage.StaticResolver{Config: cfg}, 10*time.Minute)
//	client, bucket, err := pool.ClientFor(ctx, ownerID)
package storage
