// Package hook holds the handler chains for the two policy entry points.
// It replaces the usual "save the previous hook in a global, restore it on
// unload" pattern with explicit registration: Install returns a handle, and
// teardown removes by handle instead of relying on save/restore order.
package hook

import (
	"context"
	"sync"

	"github.com/jwalitptl/credpolicy-api/internal/policy"
)

// Handle identifies an installed checker for later removal.
type Handle struct {
	id    uint64
	chain int
}

const (
	chainCredential = iota
	chainRequest
)

type credentialEntry struct {
	id      uint64
	checker policy.CredentialChecker
}

type requestEntry struct {
	id      uint64
	checker policy.RequestChecker
}

// Registry composes installed checkers into run chains. Chains run in
// install order and the first failure wins, so an earlier-installed
// handler's veto is absolute. Installation happens at startup, before any
// request is served; the mutex only protects install/remove against reads.
type Registry struct {
	mu          sync.RWMutex
	nextID      uint64
	credentials []credentialEntry
	requests    []requestEntry
}

func NewRegistry() *Registry {
	return &Registry{}
}

// InstallCredentialChecker appends a checker to the credential-check chain.
func (r *Registry) InstallCredentialChecker(c policy.CredentialChecker) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.credentials = append(r.credentials, credentialEntry{id: r.nextID, checker: c})
	return Handle{id: r.nextID, chain: chainCredential}
}

// InstallRequestChecker appends a checker to the request-gate chain.
func (r *Registry) InstallRequestChecker(c policy.RequestChecker) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.requests = append(r.requests, requestEntry{id: r.nextID, checker: c})
	return Handle{id: r.nextID, chain: chainRequest}
}

// Remove uninstalls the checker identified by h. Removing an unknown handle
// is a no-op.
func (r *Registry) Remove(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch h.chain {
	case chainCredential:
		for i, e := range r.credentials {
			if e.id == h.id {
				r.credentials = append(r.credentials[:i], r.credentials[i+1:]...)
				return
			}
		}
	case chainRequest:
		for i, e := range r.requests {
			if e.id == h.id {
				r.requests = append(r.requests[:i], r.requests[i+1:]...)
				return
			}
		}
	}
}

// CheckCredential runs the credential chain in install order.
func (r *Registry) CheckCredential(ctx context.Context, sub policy.CredentialSubmission) error {
	r.mu.RLock()
	entries := make([]credentialEntry, len(r.credentials))
	copy(entries, r.credentials)
	r.mu.RUnlock()

	for _, e := range entries {
		if err := e.checker.CheckCredential(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

// CheckRequest runs the request chain in install order.
func (r *Registry) CheckRequest(ctx context.Context, req policy.AttributeChangeRequest) error {
	r.mu.RLock()
	entries := make([]requestEntry, len(r.requests))
	copy(entries, r.requests)
	r.mu.RUnlock()

	for _, e := range entries {
		if err := e.checker.CheckRequest(ctx, req); err != nil {
			return err
		}
	}
	return nil
}
