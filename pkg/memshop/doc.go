// Package memshop provides in-memory frontend collaborators: per-session
// baskets, customer accounts, visitor sessions and a tagged output cache.
//
// Baskets are edited as drafts and only become visible to later requests
// once Save is called, matching how the basket client always saves after
// processing a request.
package memshop
