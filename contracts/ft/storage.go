package ft

import (
	"fmt"
	"strings"

	"github.com/nspcc-dev/ft-ledger/runtime"
	"lukechampine.com/uint128"
)

// DefaultStorageByteCost is the default price of one byte of contract
// storage.
var DefaultStorageByteCost = uint128.From64(10_000_000_000_000_000_000)

// StorageBalance is the storage deposit state of an account. Total is the
// cost of the account entry, Available is the part that can be withdrawn.
type StorageBalance struct {
	Total     U128 `json:"total"`
	Available U128 `json:"available"`
}

// StorageBalanceBounds are the limits of the registration deposit.
type StorageBalanceBounds struct {
	Min U128  `json:"min"`
	Max *U128 `json:"max"`
}

// accountUsage measures storage usage of a single account entry by
// registering and unregistering a temporary account with the longest ID.
func accountUsage(ic *runtime.Context, l *Ledger) (uint64, error) {
	tmp := strings.Repeat("a", MaxAccountIDLen)

	before := ic.StorageUsage()
	if _, err := l.Register(tmp); err != nil {
		return 0, err
	}
	usage := ic.StorageUsage() - before

	if _, _, err := l.Unregister(tmp, false); err != nil {
		return 0, err
	}

	return usage, nil
}

// storageCost converts bytes to the token-denominated storage cost at the
// price fixed in the ledger.
func (l *Ledger) storageCost(bytes uint64) (uint128.Uint128, error) {
	cost, err := mul64(l.state.StorageByteCost, bytes)
	if err != nil {
		return uint128.Zero, fmt.Errorf("storage cost of %d bytes: %w", bytes, err)
	}
	return cost, nil
}

// storageBounds returns registration deposit bounds. A deposit of Min covers
// the entry of an account with the longest ID, so Max is the same.
func (l *Ledger) storageBounds() (StorageBalanceBounds, error) {
	cost, err := l.storageCost(l.state.AccountStorageUsage)
	if err != nil {
		return StorageBalanceBounds{}, err
	}

	upper := U128(cost)

	return StorageBalanceBounds{
		Min: U128(cost),
		Max: &upper,
	}, nil
}

// storageBalanceOf returns storage balance of the account or nil if it is not
// registered. Total is the cost of the account entry which is held while the
// account stays registered.
func (l *Ledger) storageBalanceOf(account string) (*StorageBalance, error) {
	ok, err := l.IsRegistered(account)
	if err != nil || !ok {
		return nil, err
	}

	var buf [balanceSize]byte

	total, err := l.storageCost(runtime.RecordSize(AccountKey(account), buf[:]))
	if err != nil {
		return nil, err
	}

	return &StorageBalance{Total: U128(total)}, nil
}

// settleStorage reconciles storage usage change since before with the
// attached deposit: growth is paid from the deposit, released storage is
// refunded to the caller. The unspent deposit is refunded by the host after
// the call is committed.
func (l *Ledger) settleStorage(ic *runtime.Context, before uint64) error {
	after := ic.StorageUsage()

	switch {
	case after > before:
		cost, err := l.storageCost(after - before)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInsufficientStoragePayment, err)
		}

		if err = ic.Spend(cost); err != nil {
			return fmt.Errorf("%w: %d bytes cost %s, attached %s",
				ErrInsufficientStoragePayment, after-before, cost, ic.Deposit())
		}
	case after < before:
		refund, err := l.storageCost(before - after)
		if err != nil {
			return err
		}

		if err = ic.Refund(refund); err != nil {
			return err
		}
	}

	return nil
}

func requireAttachedPayment(ic *runtime.Context) error {
	if ic.Deposit().IsZero() {
		return ErrInsufficientAttachedPayment
	}
	return nil
}
