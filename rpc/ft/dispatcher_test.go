package ft_test

import (
	"encoding/json"
	"testing"

	ftcontract "github.com/nspcc-dev/ft-ledger/contracts/ft"
	"github.com/nspcc-dev/ft-ledger/rpc/ft"
	"github.com/nspcc-dev/ft-ledger/runtime"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"lukechampine.com/uint128"
)

const (
	owner = "owner.near"
	bob   = "bob.near"
)

var one = uint128.From64(1)

func newDispatcher(t *testing.T) *ft.Dispatcher {
	h, err := runtime.New(runtime.Prm{
		Logger: zaptest.NewLogger(t),
		Store:  storage.NewMemoryStore(),
	})
	require.NoError(t, err)

	return ft.New(h, ftcontract.New(ftcontract.Prm{StorageByteCost: uint128.From64(1)}))
}

func newInitialized(t *testing.T) *ft.Dispatcher {
	d := newDispatcher(t)

	_, _, err := d.Call(owner, uint128.Zero, ft.MethodNew, []byte(`{
		"owner_id": "owner.near",
		"total_supply": "1000000000000000",
		"metadata": {
			"spec": "ft-1.0.0",
			"name": "Example token",
			"symbol": "EXAMPLE",
			"icon": "data:image/svg+xml,%3Csvg%3E%3C%2Fsvg%3E",
			"reference": null,
			"reference_hash": null,
			"decimals": 24
		}
	}`))
	require.NoError(t, err)

	return d
}

func view(t *testing.T, d *ft.Dispatcher, method, args string) string {
	res, err := d.View(method, []byte(args))
	require.NoError(t, err)
	return string(res)
}

func TestMethods(t *testing.T) {
	require.Len(t, ft.Methods(), 14)
	require.True(t, ft.IsView(ft.MethodBalanceOf))
	require.False(t, ft.IsView(ft.MethodTransfer))
	require.False(t, ft.IsView("unknown"))
}

func TestDispatcherErrors(t *testing.T) {
	d := newInitialized(t)

	_, _, err := d.Call(owner, one, "ft_transfer_call", nil)
	require.ErrorIs(t, err, ft.ErrUnknownMethod)

	_, err = d.View("unknown", nil)
	require.ErrorIs(t, err, ft.ErrUnknownMethod)

	_, _, err = d.Call(owner, one, ft.MethodTotalSupply, nil)
	require.ErrorIs(t, err, ft.ErrMethodKind)

	_, err = d.View(ft.MethodTransfer, nil)
	require.ErrorIs(t, err, ft.ErrMethodKind)

	for _, args := range []string{
		`{"receiver_id": "bob.near", "amount": 1}`,
		`{"receiver_id": "bob.near", "amount": "-1"}`,
		`{"receiver_id": "bob.near", "amount": "1", "extra": true}`,
		`{"receiver_id": "bob.near"}`,
		`{"amount": "1"}`,
		`[]`,
	} {
		_, _, err = d.Call(owner, one, ft.MethodTransfer, []byte(args))
		require.ErrorIs(t, err, ft.ErrInvalidArguments, args)
	}

	_, _, err = d.Call(owner, one, ft.MethodNew, []byte(`{"owner_id": "owner.near", "total_supply": "1"}`))
	require.ErrorIs(t, err, ft.ErrInvalidArguments)
}

func TestDispatcherFlow(t *testing.T) {
	d := newInitialized(t)

	require.Equal(t, `"1000000000000000"`, view(t, d, ft.MethodTotalSupply, ""))
	require.Equal(t, `"owner.near"`, view(t, d, ft.MethodOwner, ""))
	require.Equal(t, `"EXAMPLE"`, func() string {
		var m ftcontract.Metadata
		require.NoError(t, json.Unmarshal([]byte(view(t, d, ft.MethodMetadata, "")), &m))
		return `"` + m.Symbol + `"`
	}())

	// 1 + 64 + 16 + 40 bytes at the price of 1
	require.JSONEq(t, `{"min": "121", "max": "121"}`, view(t, d, ft.MethodStorageBalanceBounds, ""))
	require.Equal(t, `null`, view(t, d, ft.MethodStorageBalanceOf, `{"account_id": "bob.near"}`))

	res, r, err := d.Call(bob, uint128.From64(121), ft.MethodStorageDeposit, nil)
	require.NoError(t, err)
	// 1 + 8 + 16 + 40
	require.JSONEq(t, `{"total": "65", "available": "0"}`, string(res))
	require.Equal(t, []runtime.Payout{{Receiver: bob, Amount: uint128.From64(121 - 65)}}, r.Payouts)

	_, _, err = d.Call(owner, uint128.From64(121), ft.MethodStorageDeposit, []byte(`{"account_id": "carol.near", "registration_only": true}`))
	require.NoError(t, err)

	res, r, err = d.Call(owner, one, ft.MethodTransfer, []byte(`{"receiver_id": "bob.near", "amount": "333333333333333", "memo": "hi"}`))
	require.NoError(t, err)
	require.Equal(t, `null`, string(res))
	require.Len(t, r.Events, 1)
	require.Equal(t, `EVENT_JSON:{"standard":"nep141","version":"1.0.0","event":"ft_transfer","data":`+
		`[{"old_owner_id":"owner.near","new_owner_id":"bob.near","amount":"333333333333333","memo":"hi"}]}`,
		r.Events[0].String())

	require.Equal(t, `"666666666666667"`, view(t, d, ft.MethodBalanceOf, `{"account_id": "owner.near"}`))
	require.Equal(t, `"333333333333333"`, view(t, d, ft.MethodBalanceOf, `{"account_id": "bob.near"}`))

	_, _, err = d.Call(owner, one, ft.MethodMint, []byte(`{"account_id": "bob.near", "amount": "7"}`))
	require.NoError(t, err)

	_, _, err = d.Call(bob, one, ft.MethodBurn, []byte(`{"amount": "333333333333340"}`))
	require.NoError(t, err)
	require.Equal(t, `"0"`, view(t, d, ft.MethodBalanceOf, `{"account_id": "bob.near"}`))
	require.Equal(t, `"666666666666667"`, view(t, d, ft.MethodTotalSupply, ""))

	res, _, err = d.Call(bob, one, ft.MethodStorageWithdraw, []byte(`{"amount": "0"}`))
	require.NoError(t, err)
	require.JSONEq(t, `{"total": "65", "available": "0"}`, string(res))

	res, r, err = d.Call(bob, one, ft.MethodStorageUnregister, nil)
	require.NoError(t, err)
	require.Equal(t, `true`, string(res))
	require.Equal(t, []runtime.Payout{{Receiver: bob, Amount: uint128.From64(66)}}, r.Payouts)

	_, _, err = d.Call(bob, one, ft.MethodStorageUnregister, []byte(`{"force": true}`))
	require.ErrorIs(t, err, ftcontract.ErrAccountNotFound)

	require.NotEqual(t, `0`, view(t, d, ft.MethodVersion, ""))
}
