package dispatch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/Nubi305/qubic-messenger/internal/ledger"
	"github.com/Nubi305/qubic-messenger/internal/testutil"
)

// traceEvent is one call in a golden trace. Identities use fixed byte
// patterns so the hex in the golden file stays readable.
type traceEvent struct {
	Op     string `json:"op"`
	Caller string `json:"caller"`
	Result Result `json:"result"`
}

// TestGoldenTrace_BasicFlow runs a scripted call sequence covering
// every mutating operation and failure class, and compares the full
// result trace against a golden file. Any change to check ordering,
// tick stamping, or result encoding shows up as a diff here.
//
// To regenerate: go test ./internal/dispatch -update
func TestGoldenTrace_BasicFlow(t *testing.T) {
	ctx := context.Background()
	state, err := ledger.NewState(testParams())
	require.NoError(t, err)
	d := New(state, nil, NewClock(), &FixedGenerator{}, nil)

	alice := testutil.Identity(0x11)
	bob := testutil.Identity(0x22)

	steps := []struct {
		caller ledger.Identity
		op     Op
		args   any
	}{
		{alice, OpRegister, RegisterArgs{Handle: "alice", PublicKey: testutil.Key(0xAA).String()}},
		{bob, OpRegister, RegisterArgs{Handle: "bob", PublicKey: testutil.Key(0xBB).String()}},
		{bob, OpRegister, RegisterArgs{Handle: "bob-two", PublicKey: testutil.Key(0xBB).String()}},
		{alice, OpPostProof, PostProofArgs{Receiver: bob.String(), ContentHash: testutil.Hash(0xCC).String(), Nonce: 1}},
		{alice, OpPostProof, PostProofArgs{Receiver: bob.String(), ContentHash: testutil.Hash(0xCC).String(), Nonce: 2}},
		{alice, OpPostProof, PostProofArgs{Receiver: bob.String(), ContentHash: testutil.Hash(0xCC).String(), Nonce: 1}},
		{bob, OpPostProof, PostProofArgs{Receiver: alice.String(), ContentHash: testutil.Hash(0xDD).String(), Nonce: 5}},
		{alice, OpDeactivate, DeactivateArgs{}},
		{alice, OpUpdateKey, UpdateKeyArgs{PublicKey: testutil.Key(0xAD).String()}},
	}

	var trace []traceEvent
	for i, step := range steps {
		res, err := d.Do(ctx, step.caller, step.op, step.args)
		require.NoError(t, err, "step %d", i)
		trace = append(trace, traceEvent{
			Op:     string(step.op),
			Caller: step.caller.String(),
			Result: res,
		})
	}

	data, err := json.MarshalIndent(trace, "", "  ")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "basic_flow", data)
}
