package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrNoCredentials indicates that no storage credentials resolve for an owner.
var ErrNoCredentials = errors.New("no storage credentials configured for owner")

// CredentialResolver maps an owner to the storage configuration that should
// serve their namespace. Credential storage itself lives outside this module.
type CredentialResolver interface {
	Resolve(ctx context.Context, ownerID string) (*Config, error)
}

// StaticResolver serves one shared configuration for every owner.
type StaticResolver struct {
	Config Config
}

func (r StaticResolver) Resolve(ctx context.Context, ownerID string) (*Config, error) {
	return &r.Config, nil
}

type poolEntry struct {
	client Client
	bucket string
	built  time.Time
}

// Pool hands out storage clients per owner, reusing them for a bounded TTL.
// It is owned by the application root and passed by reference into the
// listing and reconciliation components.
type Pool struct {
	mu       sync.RWMutex
	entries  map[string]*poolEntry
	sf       singleflight.Group
	resolver CredentialResolver
	ttl      time.Duration
}

// NewPool creates a client pool backed by the given resolver.
func NewPool(resolver CredentialResolver, ttl time.Duration) *Pool {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Pool{
		entries:  make(map[string]*poolEntry),
		resolver: resolver,
		ttl:      ttl,
	}
}

// ClientFor returns a live client and bucket for the owner, building one if
// the cached entry is absent or stale. Concurrent callers for the same owner
// share a single build via singleflight.
func (p *Pool) ClientFor(ctx context.Context, ownerID string) (Client, string, error) {
	p.mu.RLock()
	entry, ok := p.entries[ownerID]
	p.mu.RUnlock()

	if ok && time.Since(entry.built) < p.ttl {
		return entry.client, entry.bucket, nil
	}

	result, err, _ := p.sf.Do(ownerID, func() (interface{}, error) {
		p.mu.RLock()
		entry, ok := p.entries[ownerID]
		p.mu.RUnlock()
		if ok && time.Since(entry.built) < p.ttl {
			return entry, nil
		}

		cfg, err := p.resolver.Resolve(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if cfg == nil {
			return nil, ErrNoCredentials
		}

		client, err := NewClient(*cfg)
		if err != nil {
			return nil, err
		}

		fresh := &poolEntry{client: client, bucket: cfg.Bucket, built: time.Now()}
		p.mu.Lock()
		p.entries[ownerID] = fresh
		p.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return nil, "", err
	}

	entry = result.(*poolEntry)
	return entry.client, entry.bucket, nil
}

// Seed primes the pool with a prebuilt client for an owner. Embedded setups
// and tests use it to bypass credential resolution.
func (p *Pool) Seed(ownerID string, client Client, bucket string) {
	p.mu.Lock()
	p.entries[ownerID] = &poolEntry{client: client, bucket: bucket, built: time.Now()}
	p.mu.Unlock()
}

// Evict drops the cached client for an owner, forcing a rebuild on next use.
func (p *Pool) Evict(ownerID string) {
	p.mu.Lock()
	delete(p.entries, ownerID)
	p.mu.Unlock()
}

// Len returns the number of cached clients.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.entries)
}
