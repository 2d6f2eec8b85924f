package ledger

// Entry is one claimed handle in the registry arena.
//
// Entries are never physically removed. Deactivation clears Active and
// nothing else, so the slot keeps its handle, owner, and timestamps for
// any external reference that predates deactivation. A slot is never
// reassigned to a different owner.
type Entry struct {
	Handle        Handle
	PublicKey     PublicKey
	Owner         Identity
	RegisteredAt  uint64
	LastUpdatedAt uint64
	Active        bool
}

// registry is the fixed-capacity handle directory.
//
// The arena is allocated once; count is the number of slots ever
// assigned and only grows. Uniqueness of handle and owner is enforced
// among active entries only, so a deactivated entry's handle can be
// claimed again by a new registration in a fresh slot.
type registry struct {
	entries []Entry
	count   int
}

func newRegistry(capacity int) *registry {
	return &registry{entries: make([]Entry, capacity)}
}

// slotByOwner returns the slot of the active entry owned by owner, or
// -1. The scan is linear in slot order: with active-uniqueness enforced
// at registration there is at most one match, and first-inserted-wins
// keeps the scan order externally unobservable.
func (r *registry) slotByOwner(owner Identity) int {
	for i := 0; i < r.count; i++ {
		if r.entries[i].Active && r.entries[i].Owner == owner {
			return i
		}
	}
	return -1
}

// slotByHandle returns the slot of the active entry holding handle, or -1.
func (r *registry) slotByHandle(h Handle) int {
	for i := 0; i < r.count; i++ {
		if r.entries[i].Active && r.entries[i].Handle == h {
			return i
		}
	}
	return -1
}

// register claims handle for owner and returns the assigned slot.
//
// Precondition checks run in a fixed order so every replica fails the
// same way: owner uniqueness, then handle uniqueness, then capacity.
// Nothing is written until all checks pass.
func (r *registry) register(h Handle, key PublicKey, owner Identity, now uint64) (int, error) {
	if r.slotByOwner(owner) >= 0 {
		return -1, newError(CodeAlreadyRegistered, "identity %s already owns an active handle", owner)
	}
	if r.slotByHandle(h) >= 0 {
		return -1, newError(CodeHandleTaken, "handle %q is taken", h)
	}
	if r.count >= len(r.entries) {
		return -1, newError(CodeRegistryFull, "all %d registry slots assigned", len(r.entries))
	}

	slot := r.count
	r.count++
	r.entries[slot] = Entry{
		Handle:        h,
		PublicKey:     key,
		Owner:         owner,
		RegisteredAt:  now,
		LastUpdatedAt: now,
		Active:        true,
	}
	return slot, nil
}

// updateKey rotates the public key of owner's active entry. Returns
// false if owner has no active entry.
func (r *registry) updateKey(owner Identity, key PublicKey, now uint64) bool {
	slot := r.slotByOwner(owner)
	if slot < 0 {
		return false
	}
	r.entries[slot].PublicKey = key
	r.entries[slot].LastUpdatedAt = now
	return true
}

// deactivate soft-deletes owner's active entry. Irreversible: the slot
// is retained but never matches lookups or uniqueness checks again.
func (r *registry) deactivate(owner Identity) bool {
	slot := r.slotByOwner(owner)
	if slot < 0 {
		return false
	}
	r.entries[slot].Active = false
	return true
}
