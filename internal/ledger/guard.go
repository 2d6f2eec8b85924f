package ledger

// replayGuard holds per-slot anti-replay and rate-limit bookkeeping,
// co-indexed with the registry arena. A slot's guard state is created
// zeroed at registration and mutated only by accepted delivery proofs
// from that slot's owner.
type replayGuard struct {
	lastNonce      []uint64
	lastPostTick   []uint64
	rateLimitTicks uint64
}

func newReplayGuard(capacity int, rateLimitTicks uint64) *replayGuard {
	return &replayGuard{
		lastNonce:      make([]uint64, capacity),
		lastPostTick:   make([]uint64, capacity),
		rateLimitTicks: rateLimitTicks,
	}
}

// check validates nonce ordering and the rate-limit window for slot
// without mutating anything. Nonces must strictly increase, so with
// lastNonce starting at zero the first acceptable nonce is 1. The rate
// window is boundary-inclusive: exactly rateLimitTicks after the last
// accepted post is allowed.
func (g *replayGuard) check(slot int, nonce, now uint64) error {
	if nonce <= g.lastNonce[slot] {
		return newError(CodeBadNonce, "nonce %d not above last accepted %d", nonce, g.lastNonce[slot])
	}
	if g.lastPostTick[slot] != 0 && now-g.lastPostTick[slot] < g.rateLimitTicks {
		return newError(CodeRateLimited, "tick %d within %d-tick window after %d", now, g.rateLimitTicks, g.lastPostTick[slot])
	}
	return nil
}

// record commits the guard update for an accepted proof. Callers must
// have passed check with the same arguments in the same operation; the
// guard update and the log append are all-or-nothing together.
func (g *replayGuard) record(slot int, nonce, now uint64) {
	g.lastNonce[slot] = nonce
	g.lastPostTick[slot] = now
}
