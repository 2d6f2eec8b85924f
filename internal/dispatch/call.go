package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/Nubi305/qubic-messenger/internal/ledger"
)

// Op names a mutating ledger operation. Op strings are journaled and
// must stay stable across versions. Read-only operations (lookups,
// proof retrieval) are not journaled: they cannot move state, so replay
// has nothing to re-apply.
type Op string

const (
	OpRegister   Op = "register"
	OpUpdateKey  Op = "update_key"
	OpDeactivate Op = "deactivate"
	OpPostProof  Op = "post_proof"
)

// RegisterArgs are the arguments of OpRegister. Byte fields travel as
// lowercase hex so the journaled JSON is unambiguous.
type RegisterArgs struct {
	Handle    string `json:"handle"`
	PublicKey string `json:"public_key"`
}

// UpdateKeyArgs are the arguments of OpUpdateKey.
type UpdateKeyArgs struct {
	PublicKey string `json:"public_key"`
}

// DeactivateArgs are the arguments of OpDeactivate. The caller is
// implicitly the target.
type DeactivateArgs struct{}

// PostProofArgs are the arguments of OpPostProof.
type PostProofArgs struct {
	Receiver    string `json:"receiver"`
	ContentHash string `json:"content_hash"`
	Nonce       uint64 `json:"nonce"`
}

// CodeOK is the result code of a successful call. All other codes are
// the ledger's typed failure codes.
const CodeOK = "OK"

// Result is the journaled outcome of a mutating call. Every field is
// always serialized so the recorded JSON is structurally identical
// across calls; replay verification compares these values.
//
// Slot is -1 except for a successful register. LogIndex is meaningful
// only for a successful post_proof.
type Result struct {
	Tick     uint64 `json:"tick"`
	Code     string `json:"code"`
	Success  bool   `json:"success"`
	Slot     int    `json:"slot"`
	LogIndex uint32 `json:"log_index"`
}

// applyCall executes one mutating operation against state. It is the
// single transition function used both for live dispatch and for
// journal replay: same inputs, same state, same Result.
//
// Ledger rejections are not Go errors here; they land in Result.Code so
// they get journaled and replayed like any other outcome. The returned
// error is reserved for malformed arguments, which never reach the
// journal.
func applyCall(state *ledger.State, caller ledger.Identity, tick uint64, op Op, args []byte) (Result, error) {
	res := Result{Tick: tick, Code: CodeOK, Slot: -1}

	switch op {
	case OpRegister:
		var a RegisterArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return Result{}, fmt.Errorf("decode %s args: %w", op, err)
		}
		handle, err := ledger.NewHandle(a.Handle)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", op, err)
		}
		key, err := ledger.ParsePublicKey(a.PublicKey)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", op, err)
		}
		slot, lerr := state.Register(caller, tick, handle, key)
		if lerr != nil {
			res.Code = string(ledger.ErrCode(lerr))
			return res, nil
		}
		res.Success = true
		res.Slot = slot
		return res, nil

	case OpUpdateKey:
		var a UpdateKeyArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return Result{}, fmt.Errorf("decode %s args: %w", op, err)
		}
		key, err := ledger.ParsePublicKey(a.PublicKey)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", op, err)
		}
		if !state.UpdatePublicKey(caller, tick, key) {
			res.Code = string(ledger.CodeNotRegistered)
			return res, nil
		}
		res.Success = true
		return res, nil

	case OpDeactivate:
		if !state.Deactivate(caller) {
			res.Code = string(ledger.CodeNotRegistered)
			return res, nil
		}
		res.Success = true
		return res, nil

	case OpPostProof:
		var a PostProofArgs
		if err := json.Unmarshal(args, &a); err != nil {
			return Result{}, fmt.Errorf("decode %s args: %w", op, err)
		}
		receiver, err := ledger.ParseIdentity(a.Receiver)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", op, err)
		}
		hash, err := ledger.ParseContentHash(a.ContentHash)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", op, err)
		}
		index, lerr := state.PostDeliveryProof(caller, tick, receiver, hash, a.Nonce)
		if lerr != nil {
			res.Code = string(ledger.ErrCode(lerr))
			return res, nil
		}
		res.Success = true
		res.LogIndex = index
		return res, nil

	default:
		return Result{}, fmt.Errorf("unknown op %q", op)
	}
}
