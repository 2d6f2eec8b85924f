package ledger

// State is the whole ledger aggregate: registry arena, co-indexed
// replay guard, and delivery log. It is created once at deployment and
// mutated synchronously by exactly one operation invocation at a time;
// serialization of calls is the host's responsibility.
type State struct {
	params   Params
	registry *registry
	guard    *replayGuard
	log      *deliveryLog
}

// NewState allocates a state aggregate with all storage fixed at the
// given capacities.
func NewState(params Params) (*State, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &State{
		params:   params,
		registry: newRegistry(params.MaxRegistrants),
		guard:    newReplayGuard(params.MaxRegistrants, params.RateLimitTicks),
		log:      newDeliveryLog(params.LogCapacity),
	}, nil
}

// Params returns the capacity constants the state was created with.
func (s *State) Params() Params {
	return s.params
}

// Register claims handle for caller with the given encryption key and
// returns the assigned slot index. Fails with ALREADY_REGISTERED,
// HANDLE_TAKEN, or REGISTRY_FULL, checked in that order.
func (s *State) Register(caller Identity, now uint64, handle Handle, key PublicKey) (int, error) {
	return s.registry.register(handle, key, caller, now)
}

// LookupByHandleOutput is the read-only result of LookupByHandle.
type LookupByHandleOutput struct {
	PublicKey    PublicKey
	Owner        Identity
	RegisteredAt uint64
	Found        bool
}

// LookupByHandle resolves an active handle to its key and owner.
// Deactivated entries are invisible: Found is false for them.
func (s *State) LookupByHandle(handle Handle) LookupByHandleOutput {
	slot := s.registry.slotByHandle(handle)
	if slot < 0 {
		return LookupByHandleOutput{}
	}
	e := &s.registry.entries[slot]
	return LookupByHandleOutput{
		PublicKey:    e.PublicKey,
		Owner:        e.Owner,
		RegisteredAt: e.RegisteredAt,
		Found:        true,
	}
}

// LookupByOwnerOutput is the read-only result of LookupByOwner.
type LookupByOwnerOutput struct {
	Handle    Handle
	PublicKey PublicKey
	Found     bool
}

// LookupByOwner resolves an identity to its active handle and key.
func (s *State) LookupByOwner(owner Identity) LookupByOwnerOutput {
	slot := s.registry.slotByOwner(owner)
	if slot < 0 {
		return LookupByOwnerOutput{}
	}
	e := &s.registry.entries[slot]
	return LookupByOwnerOutput{
		Handle:    e.Handle,
		PublicKey: e.PublicKey,
		Found:     true,
	}
}

// UpdatePublicKey rotates the caller's registered encryption key.
// Returns false if the caller has no active entry.
func (s *State) UpdatePublicKey(caller Identity, now uint64, key PublicKey) bool {
	return s.registry.updateKey(caller, key, now)
}

// Deactivate soft-deletes the caller's entry. Returns false if the
// caller has no active entry. The handle immediately becomes claimable
// by a new registration; the old slot is never reassigned.
func (s *State) Deactivate(caller Identity) bool {
	return s.registry.deactivate(caller)
}

// PostDeliveryProof appends a proof that caller sent receiver a payload
// with the given content hash, and returns the physical log index.
//
// Checks run in a fixed order before any mutation: the caller must be
// registered and active (NOT_REGISTERED), must not message itself
// (SELF_MESSAGE), must present a strictly increasing nonce (BAD_NONCE),
// and must be outside the rate window (RATE_LIMITED). The guard update
// and the log append then commit together.
func (s *State) PostDeliveryProof(caller Identity, now uint64, receiver Identity, hash ContentHash, nonce uint64) (uint32, error) {
	slot := s.registry.slotByOwner(caller)
	if slot < 0 {
		return 0, newError(CodeNotRegistered, "identity %s has no active handle", caller)
	}
	if caller == receiver {
		return 0, newError(CodeSelfMessage, "sender and receiver are both %s", caller)
	}
	if err := s.guard.check(slot, nonce, now); err != nil {
		return 0, err
	}

	s.guard.record(slot, nonce, now)
	index := s.log.append(DeliveryRecord{
		Sender:      caller,
		Receiver:    receiver,
		ContentHash: hash,
		Tick:        now,
		Nonce:       nonce,
	})
	return index, nil
}

// GetDeliveryProof returns the record at a physical log index. The
// second return is false if the index is outside the ring or the slot's
// last writer has fallen out of the retention window.
func (s *State) GetDeliveryProof(index uint32) (DeliveryRecord, bool) {
	return s.log.get(index)
}

// LastNonce returns the last accepted nonce for caller's active entry.
// Hosts use this to pick the next nonce; ok is false if the caller has
// no active entry.
func (s *State) LastNonce(caller Identity) (nonce uint64, ok bool) {
	slot := s.registry.slotByOwner(caller)
	if slot < 0 {
		return 0, false
	}
	return s.guard.lastNonce[slot], true
}

// LogCursor returns the total number of proofs ever appended.
func (s *State) LogCursor() uint64 {
	return s.log.cursor
}

// RegisteredCount returns the number of registry slots ever assigned,
// including deactivated ones.
func (s *State) RegisteredCount() int {
	return s.registry.count
}
