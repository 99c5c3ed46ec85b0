package ft_test

import (
	"strings"
	"testing"

	"github.com/nspcc-dev/ft-ledger/contracts/ft"
	"github.com/nspcc-dev/ft-ledger/runtime"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"lukechampine.com/uint128"
)

const (
	owner = "owner.near"
	bob   = "bob.near"
	carol = "carol.near"

	totalSupply = 1_000_000_000_000_000
)

var one = uint128.From64(1)

type env struct {
	host     *runtime.Host
	payouts  *runtime.MemoryPayouts
	contract *ft.Contract
}

func newEnv(t *testing.T) *env {
	p := runtime.NewMemoryPayouts()
	h, err := runtime.New(runtime.Prm{
		Logger:  zaptest.NewLogger(t),
		Store:   storage.NewMemoryStore(),
		Payouts: p,
	})
	require.NoError(t, err)

	return &env{
		host:     h,
		payouts:  p,
		contract: ft.New(ft.Prm{}),
	}
}

func newInitializedEnv(t *testing.T) *env {
	e := newEnv(t)
	_, err := e.invoke(owner, uint128.Zero, func(ic *runtime.Context) ([]runtime.Event, error) {
		return e.contract.Initialize(ic, owner, uint128.From64(totalSupply), ft.DefaultMetadata("Example token", "EXAMPLE", 24))
	})
	require.NoError(t, err)
	return e
}

func (e *env) invoke(caller string, deposit uint128.Uint128, f func(*runtime.Context) ([]runtime.Event, error)) (*runtime.Receipt, error) {
	return e.host.Invoke(runtime.Call{Method: "test", Caller: caller, Deposit: deposit}, f)
}

func (e *env) view(t *testing.T, f func(*runtime.Context) error) {
	require.NoError(t, e.host.View(f))
}

func (e *env) balanceOf(t *testing.T, account string) uint128.Uint128 {
	var res uint128.Uint128
	e.view(t, func(ic *runtime.Context) error {
		var err error
		res, err = e.contract.BalanceOf(ic, account)
		return err
	})
	return res
}

func (e *env) totalSupply(t *testing.T) uint128.Uint128 {
	var res uint128.Uint128
	e.view(t, func(ic *runtime.Context) error {
		var err error
		res, err = e.contract.TotalSupply(ic)
		return err
	})
	return res
}

func (e *env) bounds(t *testing.T) ft.StorageBalanceBounds {
	var res ft.StorageBalanceBounds
	e.view(t, func(ic *runtime.Context) error {
		var err error
		res, err = e.contract.StorageBalanceBounds(ic)
		return err
	})
	return res
}

func (e *env) storageDeposit(caller, account string, deposit uint128.Uint128) (*runtime.Receipt, error) {
	return e.invoke(caller, deposit, func(ic *runtime.Context) ([]runtime.Event, error) {
		_, err := e.contract.StorageDeposit(ic, account, false)
		return nil, err
	})
}

func (e *env) transfer(caller, receiver string, amount uint64, deposit uint128.Uint128) (*runtime.Receipt, error) {
	return e.invoke(caller, deposit, func(ic *runtime.Context) ([]runtime.Event, error) {
		return e.contract.Transfer(ic, receiver, uint128.From64(amount), "")
	})
}

func (e *env) register(t *testing.T, account string) {
	_, err := e.storageDeposit(account, "", e.bounds(t).Min.Uint128())
	require.NoError(t, err)
}

func entryCost(account string) uint128.Uint128 {
	return ft.DefaultStorageByteCost.Mul64(1 + uint64(len(account)) + 16 + runtime.RecordOverhead)
}

func TestInitialize(t *testing.T) {
	e := newEnv(t)

	t.Run("not initialized", func(t *testing.T) {
		err := e.host.View(func(ic *runtime.Context) error {
			_, err := e.contract.TotalSupply(ic)
			return err
		})
		require.ErrorIs(t, err, ft.ErrNotInitialized)
	})

	t.Run("invalid metadata", func(t *testing.T) {
		_, err := e.invoke(owner, uint128.Zero, func(ic *runtime.Context) ([]runtime.Event, error) {
			return e.contract.Initialize(ic, owner, uint128.From64(totalSupply), ft.DefaultMetadata("", "EXAMPLE", 24))
		})
		require.ErrorIs(t, err, ft.ErrInvalidMetadata)

		_, err = e.invoke(owner, uint128.Zero, func(ic *runtime.Context) ([]runtime.Event, error) {
			return e.contract.Initialize(ic, owner, uint128.From64(totalSupply), ft.DefaultMetadata(strings.Repeat("a", 1<<16+1), "EXAMPLE", 24))
		})
		require.ErrorIs(t, err, ft.ErrInvalidMetadata)
	})

	meta := ft.DefaultMetadata("Example token", "EXAMPLE", 24)

	r, err := e.invoke(owner, one, func(ic *runtime.Context) ([]runtime.Event, error) {
		return e.contract.Initialize(ic, owner, uint128.From64(totalSupply), meta)
	})
	require.NoError(t, err)
	require.Len(t, r.Events, 1)
	require.Equal(t, `EVENT_JSON:{"standard":"nep141","version":"1.0.0","event":"ft_mint","data":`+
		`[{"owner_id":"owner.near","amount":"1000000000000000","memo":"Initial tokens supply is minted"}]}`,
		r.Events[0].String())
	require.Equal(t, []runtime.Payout{{Receiver: owner, Amount: one}}, r.Payouts)

	require.Equal(t, uint128.From64(totalSupply), e.totalSupply(t))
	require.Equal(t, uint128.From64(totalSupply), e.balanceOf(t, owner))

	e.view(t, func(ic *runtime.Context) error {
		m, err := e.contract.Metadata(ic)
		require.NoError(t, err)
		require.Equal(t, meta, m)

		o, err := e.contract.Owner(ic)
		require.NoError(t, err)
		require.Equal(t, owner, o)
		return nil
	})

	_, err = e.invoke(owner, uint128.Zero, func(ic *runtime.Context) ([]runtime.Event, error) {
		return e.contract.Initialize(ic, owner, uint128.From64(1), meta)
	})
	require.ErrorIs(t, err, ft.ErrAlreadyInitialized)
}

func TestQueriesAreIdempotent(t *testing.T) {
	e := newInitializedEnv(t)
	usage := e.host.StorageUsage()

	for i := 0; i < 3; i++ {
		require.Equal(t, uint128.From64(totalSupply), e.totalSupply(t))
		require.Equal(t, uint128.From64(totalSupply), e.balanceOf(t, owner))
		require.True(t, e.balanceOf(t, "nobody.near").IsZero())
	}

	require.Equal(t, usage, e.host.StorageUsage())
}

func TestStorageDeposit(t *testing.T) {
	e := newInitializedEnv(t)
	bounds := e.bounds(t)
	minBound := bounds.Min.Uint128()

	require.Equal(t, ft.DefaultStorageByteCost.Mul64(1+ft.MaxAccountIDLen+16+runtime.RecordOverhead), minBound)
	require.NotNil(t, bounds.Max)
	require.Equal(t, bounds.Min, *bounds.Max)

	t.Run("below minimum", func(t *testing.T) {
		_, err := e.storageDeposit(bob, "", minBound.Sub64(1))
		require.ErrorIs(t, err, ft.ErrDepositOutOfBounds)
	})

	t.Run("invalid account", func(t *testing.T) {
		_, err := e.storageDeposit(bob, strings.Repeat("b", ft.MaxAccountIDLen+1), minBound)
		require.ErrorIs(t, err, ft.ErrInvalidAccountID)
	})

	r, err := e.storageDeposit(bob, "", minBound)
	require.NoError(t, err)
	require.Equal(t, []runtime.Payout{{Receiver: bob, Amount: minBound.Sub(entryCost(bob))}}, r.Payouts)

	e.view(t, func(ic *runtime.Context) error {
		bal, err := e.contract.StorageBalanceOf(ic, bob)
		require.NoError(t, err)
		require.NotNil(t, bal)
		require.Equal(t, ft.StorageBalance{Total: ft.U128(entryCost(bob))}, *bal)

		bal, err = e.contract.StorageBalanceOf(ic, carol)
		require.NoError(t, err)
		require.Nil(t, bal)
		return nil
	})

	t.Run("already registered", func(t *testing.T) {
		r, err := e.storageDeposit(bob, "", minBound)
		require.NoError(t, err)
		require.Equal(t, []runtime.Payout{{Receiver: bob, Amount: minBound}}, r.Payouts)
		require.Equal(t, []string{"The account bob.near is already registered, refunding the deposit"}, r.Logs)
	})

	t.Run("for another account", func(t *testing.T) {
		r, err := e.storageDeposit(bob, carol, minBound.Add64(7))
		require.NoError(t, err)
		require.Equal(t, bob, r.Payouts[0].Receiver)
		require.Equal(t, minBound.Add64(7).Sub(entryCost(carol)), r.Payouts[0].Amount)
		require.True(t, e.balanceOf(t, carol).IsZero())
	})
}

func TestTransfer(t *testing.T) {
	e := newInitializedEnv(t)
	e.register(t, bob)

	t.Run("without attached payment", func(t *testing.T) {
		_, err := e.transfer(owner, bob, 1, uint128.Zero)
		require.ErrorIs(t, err, ft.ErrInsufficientAttachedPayment)
	})

	t.Run("self", func(t *testing.T) {
		_, err := e.transfer(owner, owner, 1, one)
		require.ErrorIs(t, err, ft.ErrSelfTransfer)
	})

	t.Run("zero", func(t *testing.T) {
		_, err := e.transfer(owner, bob, 0, one)
		require.ErrorIs(t, err, ft.ErrZeroAmount)
	})

	t.Run("from unregistered", func(t *testing.T) {
		usage := e.host.StorageUsage()
		_, err := e.transfer(carol, bob, 1, one)
		require.ErrorIs(t, err, ft.ErrAccountNotRegistered)
		require.Equal(t, usage, e.host.StorageUsage())
		require.Equal(t, uint128.From64(totalSupply), e.balanceOf(t, owner))
		require.True(t, e.balanceOf(t, bob).IsZero())
	})

	const amount = totalSupply / 3

	r, err := e.transfer(owner, bob, amount, one)
	require.NoError(t, err)
	require.Equal(t, []runtime.Event{ft.TransferEvent{
		Sender:   owner,
		Receiver: bob,
		Amount:   uint128.From64(amount),
	}}, r.Events)
	require.Equal(t, []runtime.Payout{{Receiver: owner, Amount: one}}, r.Payouts)
	require.NotEmpty(t, r.Hash())

	require.Equal(t, uint128.From64(666_666_666_666_667), e.balanceOf(t, owner))
	require.Equal(t, uint128.From64(333_333_333_333_333), e.balanceOf(t, bob))
	require.Equal(t, uint128.From64(totalSupply), e.totalSupply(t))
}

func TestMintAndBurn(t *testing.T) {
	e := newInitializedEnv(t)
	e.register(t, bob)

	mint := func(caller, account string, amount uint128.Uint128) error {
		_, err := e.invoke(caller, one, func(ic *runtime.Context) ([]runtime.Event, error) {
			return e.contract.Mint(ic, account, amount, "")
		})
		return err
	}

	require.ErrorIs(t, mint(bob, bob, one), ft.ErrNotOwner)
	require.ErrorIs(t, mint(owner, carol, one), ft.ErrAccountNotRegistered)

	rest := uint128.Max.Sub64(totalSupply)
	require.NoError(t, mint(owner, bob, rest))
	require.Equal(t, uint128.Max, e.totalSupply(t))
	require.Equal(t, rest, e.balanceOf(t, bob))

	require.ErrorIs(t, mint(owner, owner, one), ft.ErrBalanceOverflow)
	require.Equal(t, uint128.Max, e.totalSupply(t))

	burn := func(caller string, amount uint128.Uint128, deposit uint128.Uint128) (*runtime.Receipt, error) {
		return e.invoke(caller, deposit, func(ic *runtime.Context) ([]runtime.Event, error) {
			return e.contract.Burn(ic, amount, "burn")
		})
	}

	_, err := burn(bob, one, uint128.Zero)
	require.ErrorIs(t, err, ft.ErrInsufficientAttachedPayment)

	_, err = burn(bob, uint128.Zero, one)
	require.ErrorIs(t, err, ft.ErrZeroAmount)

	_, err = burn(bob, rest.Add64(1), one)
	require.ErrorIs(t, err, ft.ErrInsufficientBalance)

	r, err := burn(bob, rest, one)
	require.NoError(t, err)
	require.Equal(t, []runtime.Event{ft.BurnEvent{Owner: bob, Amount: rest, Memo: "burn"}}, r.Events)
	require.Equal(t, uint128.From64(totalSupply), e.totalSupply(t))
	require.True(t, e.balanceOf(t, bob).IsZero())
}

func TestStorageWithdraw(t *testing.T) {
	e := newInitializedEnv(t)

	withdraw := func(caller string, amount *uint128.Uint128, deposit uint128.Uint128) (ft.StorageBalance, error) {
		var res ft.StorageBalance
		_, err := e.invoke(caller, deposit, func(ic *runtime.Context) ([]runtime.Event, error) {
			var err error
			res, err = e.contract.StorageWithdraw(ic, amount)
			return nil, err
		})
		return res, err
	}

	_, err := withdraw(owner, nil, uint128.Zero)
	require.ErrorIs(t, err, ft.ErrInsufficientAttachedPayment)

	_, err = withdraw(bob, nil, one)
	require.ErrorIs(t, err, ft.ErrAccountNotRegistered)

	_, err = withdraw(owner, &one, one)
	require.ErrorIs(t, err, ft.ErrInsufficientStorageBalance)

	zero := uint128.Zero
	for _, amount := range []*uint128.Uint128{nil, &zero} {
		bal, err := withdraw(owner, amount, one)
		require.NoError(t, err)
		require.Equal(t, ft.StorageBalance{Total: ft.U128(entryCost(owner))}, bal)
	}
}

func TestStorageUnregister(t *testing.T) {
	e := newInitializedEnv(t)
	e.register(t, bob)

	_, err := e.transfer(owner, bob, 1000, one)
	require.NoError(t, err)

	unregister := func(caller string, force bool, deposit uint128.Uint128) (*runtime.Receipt, error) {
		return e.invoke(caller, deposit, func(ic *runtime.Context) ([]runtime.Event, error) {
			return e.contract.StorageUnregister(ic, force)
		})
	}

	_, err = unregister(bob, true, uint128.Zero)
	require.ErrorIs(t, err, ft.ErrInsufficientAttachedPayment)

	_, err = unregister(carol, false, one)
	require.ErrorIs(t, err, ft.ErrAccountNotFound)

	_, err = unregister(bob, false, one)
	require.ErrorIs(t, err, ft.ErrNonZeroBalance)
	require.Equal(t, uint128.From64(1000), e.balanceOf(t, bob))

	r, err := unregister(bob, true, one)
	require.NoError(t, err)
	require.Equal(t, []runtime.Event{ft.BurnEvent{Owner: bob, Amount: uint128.From64(1000)}}, r.Events)
	require.Equal(t, []string{"Closed @bob.near with 1000", "Account @bob.near burned 1000"}, r.Logs)
	require.Equal(t, []runtime.Payout{{Receiver: bob, Amount: entryCost(bob).Add64(1)}}, r.Payouts)

	require.Equal(t, uint128.From64(totalSupply-1000), e.totalSupply(t))
	require.True(t, e.balanceOf(t, bob).IsZero())

	_, err = e.transfer(owner, bob, 1, one)
	require.ErrorIs(t, err, ft.ErrAccountNotRegistered)

	t.Run("zero balance without force", func(t *testing.T) {
		e.register(t, carol)

		r, err := unregister(carol, false, one)
		require.NoError(t, err)
		require.Empty(t, r.Events)
		require.Equal(t, []string{"Closed @carol.near with 0"}, r.Logs)
	})
}

func TestStorageByteCostIsFixed(t *testing.T) {
	e := newInitializedEnv(t)
	e.register(t, bob)

	// reopened with another price
	e.contract = ft.New(ft.Prm{StorageByteCost: ft.DefaultStorageByteCost.Mul64(10)})

	e.view(t, func(ic *runtime.Context) error {
		cost, err := e.contract.StorageByteCost(ic)
		require.NoError(t, err)
		require.Equal(t, ft.DefaultStorageByteCost, cost)
		return nil
	})
	require.Equal(t, ft.DefaultStorageByteCost.Mul64(1+ft.MaxAccountIDLen+16+runtime.RecordOverhead), e.bounds(t).Min.Uint128())

	r, err := e.invoke(bob, one, func(ic *runtime.Context) ([]runtime.Event, error) {
		return e.contract.StorageUnregister(ic, false)
	})
	require.NoError(t, err)
	require.Equal(t, []runtime.Payout{{Receiver: bob, Amount: entryCost(bob).Add64(1)}}, r.Payouts)

	empty := newEnv(t)
	err = empty.host.View(func(ic *runtime.Context) error {
		_, err := empty.contract.StorageByteCost(ic)
		return err
	})
	require.ErrorIs(t, err, ft.ErrNotInitialized)
}

func TestVersion(t *testing.T) {
	require.Positive(t, ft.New(ft.Prm{}).Version())
}
