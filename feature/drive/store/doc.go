// Package store provides the namespace-level primitives the virtual
// directory engine is built from: key and naming conventions plus the
// prefix-listing, probe, marker, copy and batch-delete operations over one
// owner bucket.
//
// # Key layout
//
// The object store is a flat key space. An owner's namespace is everything
// under "<ownerID>/". A virtual folder "/docs" is the zero-byte marker
// object "ownerID/docs/"; its contents are every key under that prefix.
// Uploaded files carry a "<unix-millis>-<hex nonce>-<original name>" base
// name so the user-visible name survives even without object metadata.
//
// The engine never assumes native rename or move from the underlying store;
// everything above is built from list, stat, put, copy and delete.
package store
