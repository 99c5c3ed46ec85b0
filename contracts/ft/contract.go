package ft

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/ft-ledger/common"
	"github.com/nspcc-dev/ft-ledger/runtime"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"go.uber.org/zap"
	"lukechampine.com/uint128"
)

const initialSupplyMemo = "Initial tokens supply is minted"

// Prm groups Contract parameters.
type Prm struct {
	// Price of one byte of contract storage the ledger is initialized with.
	// Defaults to DefaultStorageByteCost. Initialized ledger keeps its own
	// price, this one is ignored then.
	StorageByteCost uint128.Uint128
}

// Contract implements fungible token entry points. Contract itself is
// stateless: all state lives in the storage of the call Context, so a single
// Contract serves any number of sequential calls.
type Contract struct {
	byteCost uint128.Uint128
}

// New returns Contract with the given parameters.
func New(prm Prm) *Contract {
	c := &Contract{byteCost: prm.StorageByteCost}
	if c.byteCost.IsZero() {
		c.byteCost = DefaultStorageByteCost
	}
	return c
}

// StorageByteCost returns price of one byte of contract storage fixed in the
// ledger at initialization.
func (c *Contract) StorageByteCost(ic *runtime.Context) (uint128.Uint128, error) {
	l, err := loadLedger(ic)
	if err != nil {
		return uint128.Zero, err
	}
	return l.state.StorageByteCost, nil
}

// Initialize creates the ledger, registers the owner and mints the whole
// totalSupply to it. Storage of the initial state is paid by the contract
// account, the attached deposit is refunded.
func (c *Contract) Initialize(ic *runtime.Context, owner string, totalSupply uint128.Uint128, meta Metadata) ([]runtime.Event, error) {
	ok, err := common.Exists(ic, []byte{ledgerKey})
	if err != nil {
		return nil, fmt.Errorf("check contract state: %w", err)
	}
	if ok {
		return nil, ErrAlreadyInitialized
	}

	if err = meta.Validate(); err != nil {
		return nil, err
	}
	if err = ValidateAccountID(owner); err != nil {
		return nil, err
	}

	l := newLedger(ic)
	l.state.Owner = owner
	l.state.StorageByteCost = c.byteCost

	l.state.AccountStorageUsage, err = accountUsage(ic, l)
	if err != nil {
		return nil, fmt.Errorf("measure account storage usage: %w", err)
	}

	if _, err = l.Register(owner); err != nil {
		return nil, err
	}

	ev, err := l.Deposit(owner, totalSupply, initialSupplyMemo)
	if err != nil {
		return nil, err
	}

	if err = common.SetSerialized(ic, []byte{metadataKey}, &meta); err != nil {
		return nil, fmt.Errorf("save metadata: %w", err)
	}

	ic.Logger().Info("token initialized",
		zap.String("owner", owner), zap.String("symbol", meta.Symbol), zap.Stringer("total_supply", totalSupply))

	return []runtime.Event{ev}, nil
}

// Transfer moves amount of tokens from the caller to the receiver. At least
// one unit must be attached.
func (c *Contract) Transfer(ic *runtime.Context, receiver string, amount uint128.Uint128, memo string) ([]runtime.Event, error) {
	if err := requireAttachedPayment(ic); err != nil {
		return nil, err
	}

	before := ic.StorageUsage()

	l, err := loadLedger(ic)
	if err != nil {
		return nil, err
	}

	ev, err := l.Transfer(ic.Caller(), receiver, amount, memo)
	if err != nil {
		return nil, err
	}

	if err = l.settleStorage(ic, before); err != nil {
		return nil, err
	}

	return []runtime.Event{ev}, nil
}

// Mint credits new tokens to the registered account. Only the owner may mint.
// At least one unit must be attached.
func (c *Contract) Mint(ic *runtime.Context, account string, amount uint128.Uint128, memo string) ([]runtime.Event, error) {
	if err := requireAttachedPayment(ic); err != nil {
		return nil, err
	}

	before := ic.StorageUsage()

	l, err := loadLedger(ic)
	if err != nil {
		return nil, err
	}

	if ic.Caller() != l.state.Owner {
		return nil, ErrNotOwner
	}

	ev, err := l.Deposit(account, amount, memo)
	if err != nil {
		return nil, err
	}

	if err = l.settleStorage(ic, before); err != nil {
		return nil, err
	}

	return []runtime.Event{ev}, nil
}

// Burn destroys amount of the caller's tokens. At least one unit must be
// attached.
func (c *Contract) Burn(ic *runtime.Context, amount uint128.Uint128, memo string) ([]runtime.Event, error) {
	if err := requireAttachedPayment(ic); err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, ErrZeroAmount
	}

	before := ic.StorageUsage()

	l, err := loadLedger(ic)
	if err != nil {
		return nil, err
	}

	ev, err := l.Withdraw(ic.Caller(), amount, memo)
	if err != nil {
		return nil, err
	}

	if err = l.settleStorage(ic, before); err != nil {
		return nil, err
	}

	return []runtime.Event{ev}, nil
}

// StorageDeposit registers the account (the caller if empty) paying for its
// entry from the attached deposit. Deposit below the minimum bound is
// rejected, the excess is refunded. Deposit for already registered account
// is refunded completely. The only valid storage balance is the minimum one,
// so registrationOnly doesn't change the outcome.
func (c *Contract) StorageDeposit(ic *runtime.Context, account string, registrationOnly bool) (StorageBalance, error) {
	if account == "" {
		account = ic.Caller()
	}
	if err := ValidateAccountID(account); err != nil {
		return StorageBalance{}, err
	}

	before := ic.StorageUsage()

	l, err := loadLedger(ic)
	if err != nil {
		return StorageBalance{}, err
	}

	ok, err := l.IsRegistered(account)
	if err != nil {
		return StorageBalance{}, err
	}

	if ok {
		ic.Log(fmt.Sprintf("The account %s is already registered, refunding the deposit", account))
	} else {
		bounds, err := l.storageBounds()
		if err != nil {
			return StorageBalance{}, err
		}

		if ic.Deposit().Cmp(bounds.Min.Uint128()) < 0 {
			return StorageBalance{}, fmt.Errorf("%w: attached %s, minimum %s",
				ErrDepositOutOfBounds, ic.Deposit(), bounds.Min)
		}

		if _, err = l.Register(account); err != nil {
			return StorageBalance{}, err
		}

		if err = l.settleStorage(ic, before); err != nil {
			return StorageBalance{}, err
		}
	}

	bal, err := l.storageBalanceOf(account)
	if err != nil {
		return StorageBalance{}, err
	}

	return *bal, nil
}

// StorageWithdraw withdraws amount of the available storage balance of the
// caller. Whole available balance is withdrawn if amount is nil. Storage
// balance is fully locked by the account entry, so only zero amount can be
// withdrawn. At least one unit must be attached.
func (c *Contract) StorageWithdraw(ic *runtime.Context, amount *uint128.Uint128) (StorageBalance, error) {
	if err := requireAttachedPayment(ic); err != nil {
		return StorageBalance{}, err
	}

	l, err := loadLedger(ic)
	if err != nil {
		return StorageBalance{}, err
	}

	bal, err := l.storageBalanceOf(ic.Caller())
	if err != nil {
		return StorageBalance{}, err
	}
	if bal == nil {
		return StorageBalance{}, fmt.Errorf("%w: %s", ErrAccountNotRegistered, ic.Caller())
	}

	if amount != nil && amount.Cmp(bal.Available.Uint128()) > 0 {
		return StorageBalance{}, fmt.Errorf("%w: requested %s, available %s",
			ErrInsufficientStorageBalance, amount, bal.Available)
	}

	return *bal, nil
}

// StorageUnregister removes the caller's entry and refunds its storage cost.
// Positive balance is burned if force is set, otherwise unregistering fails.
// At least one unit must be attached.
func (c *Contract) StorageUnregister(ic *runtime.Context, force bool) ([]runtime.Event, error) {
	if err := requireAttachedPayment(ic); err != nil {
		return nil, err
	}

	before := ic.StorageUsage()

	l, err := loadLedger(ic)
	if err != nil {
		return nil, err
	}

	account := ic.Caller()

	bal, evs, err := l.Unregister(account, force)
	if err != nil {
		return nil, err
	}

	ic.Log(fmt.Sprintf("Closed @%s with %s", account, bal))
	if !bal.IsZero() {
		ic.Log(fmt.Sprintf("Account @%s burned %s", account, bal))
	}

	if err = l.settleStorage(ic, before); err != nil {
		return nil, err
	}

	return evs, nil
}

// BalanceOf returns balance of the account, zero for unregistered ones.
func (c *Contract) BalanceOf(ic *runtime.Context, account string) (uint128.Uint128, error) {
	l, err := loadLedger(ic)
	if err != nil {
		return uint128.Zero, err
	}
	return l.BalanceOf(account)
}

// TotalSupply returns the total amount of tokens.
func (c *Contract) TotalSupply(ic *runtime.Context) (uint128.Uint128, error) {
	l, err := loadLedger(ic)
	if err != nil {
		return uint128.Zero, err
	}
	return l.TotalSupply(), nil
}

// Metadata returns token metadata.
func (c *Contract) Metadata(ic *runtime.Context) (Metadata, error) {
	var m Metadata

	err := common.GetSerialized(ic, []byte{metadataKey}, &m)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return m, ErrNotInitialized
		}
		return m, fmt.Errorf("read metadata: %w", err)
	}

	return m, nil
}

// Owner returns the account the initial supply was minted to.
func (c *Contract) Owner(ic *runtime.Context) (string, error) {
	l, err := loadLedger(ic)
	if err != nil {
		return "", err
	}
	return l.state.Owner, nil
}

// StorageBalanceBounds returns limits of the registration deposit.
func (c *Contract) StorageBalanceBounds(ic *runtime.Context) (StorageBalanceBounds, error) {
	l, err := loadLedger(ic)
	if err != nil {
		return StorageBalanceBounds{}, err
	}
	return l.storageBounds()
}

// StorageBalanceOf returns storage balance of the account or nil if it is not
// registered.
func (c *Contract) StorageBalanceOf(ic *runtime.Context, account string) (*StorageBalance, error) {
	l, err := loadLedger(ic)
	if err != nil {
		return nil, err
	}
	return l.storageBalanceOf(account)
}

// Version returns contract version.
func (c *Contract) Version() int {
	return common.Version
}
