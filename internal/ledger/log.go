package ledger

// DeliveryRecord is one proof-of-delivery entry: evidence that an
// encrypted payload with the given content hash was sent from Sender to
// Receiver, without the payload ever touching the ledger.
type DeliveryRecord struct {
	Sender      Identity
	Receiver    Identity
	ContentHash ContentHash
	Tick        uint64
	Nonce       uint64
}

// deliveryLog is the fixed-capacity circular proof log.
//
// cursor counts total writes ever made, not a buffer position; write
// number w (0-based) lands in physical slot w mod C. lastWriter records,
// per physical slot, the 1-based write number of the most recent write
// to that slot (0 = never written). Freshness is decided by comparing
// that recorded sequence number against the cursor window directly,
// never by modular arithmetic on the cursor alone: a purely modular
// comparison cannot tell "within the window" from "exactly one full
// cycle ago".
type deliveryLog struct {
	records    []DeliveryRecord
	lastWriter []uint64
	cursor     uint64
}

func newDeliveryLog(capacity int) *deliveryLog {
	return &deliveryLog{
		records:    make([]DeliveryRecord, capacity),
		lastWriter: make([]uint64, capacity),
	}
}

// append writes rec at the cursor's physical slot, overwriting whatever
// write landed there a full cycle ago, and returns the physical index.
// Callers must hold on to the returned index and request it back before
// C subsequent writes evict it.
func (l *deliveryLog) append(rec DeliveryRecord) uint32 {
	slot := l.cursor % uint64(len(l.records))
	l.records[slot] = rec
	l.cursor++
	l.lastWriter[slot] = l.cursor
	return uint32(slot)
}

// get returns the record at physical slot index if that slot's most
// recent writer is within the window of the last C writes. Returns
// false for indices outside the ring, never-written slots, and slots
// whose last writer has been evicted.
func (l *deliveryLog) get(index uint32) (DeliveryRecord, bool) {
	c := uint64(len(l.records))
	if uint64(index) >= c {
		return DeliveryRecord{}, false
	}
	w := l.lastWriter[index]
	if w == 0 || w+c <= l.cursor {
		return DeliveryRecord{}, false
	}
	return l.records[index], true
}
