// Package sync reconciles the metadata database with the object store for
// one owner namespace, in both directions. Every pass is idempotent: a second
// run over a consistent system reports zero changes.
package sync
