package tests

import (
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/ft-ledger/contracts/ft"
	rpcft "github.com/nspcc-dev/ft-ledger/rpc/ft"
	"github.com/nspcc-dev/ft-ledger/runtime"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"lukechampine.com/uint128"
)

// Executor is a contract deployed on the in-memory host.
type Executor struct {
	Host     *runtime.Host
	Payouts  *runtime.MemoryPayouts
	Contract *ft.Contract
	RPC      *rpcft.Dispatcher
}

// NewExecutor returns Executor with the contract using the given storage byte
// cost.
func NewExecutor(t testing.TB, byteCost uint128.Uint128) *Executor {
	p := runtime.NewMemoryPayouts()

	h, err := runtime.New(runtime.Prm{
		Logger:  zaptest.NewLogger(t),
		Store:   storage.NewMemoryStore(),
		Payouts: p,
	})
	require.NoError(t, err)

	c := ft.New(ft.Prm{StorageByteCost: byteCost})

	return &Executor{
		Host:     h,
		Payouts:  p,
		Contract: c,
		RPC:      rpcft.New(h, c),
	}
}

// ContractInvoker calls contract methods on behalf of a fixed caller with a
// fixed deposit.
type ContractInvoker struct {
	*Executor

	Caller  string
	Deposit uint128.Uint128
}

// Invoker returns invoker calling on behalf of the account.
func (e *Executor) Invoker(caller string) *ContractInvoker {
	return &ContractInvoker{Executor: e, Caller: caller}
}

// WithCaller returns a copy of the invoker with another caller.
func (c *ContractInvoker) WithCaller(caller string) *ContractInvoker {
	cp := *c
	cp.Caller = caller
	return &cp
}

// WithDeposit returns a copy of the invoker attaching the deposit to calls.
func (c *ContractInvoker) WithDeposit(deposit uint128.Uint128) *ContractInvoker {
	cp := *c
	cp.Deposit = deposit
	return &cp
}

func encodeArgs(t testing.TB, args any) []byte {
	if args == nil {
		return nil
	}
	data, err := json.Marshal(args)
	require.NoError(t, err)
	return data
}

// Invoke calls state-changing method and checks that JSON result equals
// the expected one. Empty expected result is not checked.
func (c *ContractInvoker) Invoke(t testing.TB, expected string, method string, args any) *runtime.Receipt {
	res, r, err := c.RPC.Call(c.Caller, c.Deposit, method, encodeArgs(t, args))
	require.NoError(t, err, method)
	if expected != "" {
		require.JSONEq(t, expected, string(res), method)
	}
	return r
}

// InvokeFail calls state-changing method and checks that it fails with the
// expected error.
func (c *ContractInvoker) InvokeFail(t testing.TB, expected error, method string, args any) {
	_, _, err := c.RPC.Call(c.Caller, c.Deposit, method, encodeArgs(t, args))
	require.ErrorIs(t, err, expected, method)
}

// View calls read-only method and checks that JSON result equals the expected
// one.
func (c *ContractInvoker) View(t testing.TB, expected string, method string, args any) {
	res, err := c.RPC.View(method, encodeArgs(t, args))
	require.NoError(t, err, method)
	require.JSONEq(t, expected, string(res), method)
}

// Balances returns balances of all registered accounts read from the raw
// contract storage.
func (e *Executor) Balances(t testing.TB) map[string]uint128.Uint128 {
	res := make(map[string]uint128.Uint128)

	e.Host.IterateStorage(func(key, value []byte) bool {
		if len(key) == 0 || key[0] != ft.AccountPrefix {
			return true
		}
		require.Len(t, value, 16)
		res[string(key[1:])] = uint128.FromBytes(value)
		return true
	})

	return res
}
