package ft

import (
	ftcontract "github.com/nspcc-dev/ft-ledger/contracts/ft"
	"github.com/nspcc-dev/ft-ledger/runtime"
	"lukechampine.com/uint128"
)

// Method names.
const (
	MethodNew                  = "new"
	MethodTransfer             = "ft_transfer"
	MethodMint                 = "ft_mint"
	MethodBurn                 = "ft_burn"
	MethodStorageDeposit       = "storage_deposit"
	MethodStorageWithdraw      = "storage_withdraw"
	MethodStorageUnregister    = "storage_unregister"
	MethodBalanceOf            = "ft_balance_of"
	MethodTotalSupply          = "ft_total_supply"
	MethodMetadata             = "ft_metadata"
	MethodStorageBalanceBounds = "storage_balance_bounds"
	MethodStorageBalanceOf     = "storage_balance_of"
	MethodOwner                = "ft_owner"
	MethodVersion              = "version"
)

// NewArgs are arguments of 'new'.
type NewArgs struct {
	OwnerID     string               `json:"owner_id"`
	TotalSupply *ftcontract.U128     `json:"total_supply"`
	Metadata    *ftcontract.Metadata `json:"metadata"`
}

// TransferArgs are arguments of 'ft_transfer'.
type TransferArgs struct {
	ReceiverID string           `json:"receiver_id"`
	Amount     *ftcontract.U128 `json:"amount"`
	Memo       *string          `json:"memo,omitempty"`
}

// MintArgs are arguments of 'ft_mint'.
type MintArgs struct {
	AccountID string           `json:"account_id"`
	Amount    *ftcontract.U128 `json:"amount"`
	Memo      *string          `json:"memo,omitempty"`
}

// BurnArgs are arguments of 'ft_burn'.
type BurnArgs struct {
	Amount *ftcontract.U128 `json:"amount"`
	Memo   *string          `json:"memo,omitempty"`
}

// StorageDepositArgs are arguments of 'storage_deposit'.
type StorageDepositArgs struct {
	AccountID        *string `json:"account_id,omitempty"`
	RegistrationOnly *bool   `json:"registration_only,omitempty"`
}

// StorageWithdrawArgs are arguments of 'storage_withdraw'.
type StorageWithdrawArgs struct {
	Amount *ftcontract.U128 `json:"amount,omitempty"`
}

// StorageUnregisterArgs are arguments of 'storage_unregister'.
type StorageUnregisterArgs struct {
	Force *bool `json:"force,omitempty"`
}

// AccountArgs are arguments of 'ft_balance_of' and 'storage_balance_of'.
type AccountArgs struct {
	AccountID string `json:"account_id"`
}

type method struct {
	view bool
	// call returns method result to be encoded in JSON.
	call func(c *ftcontract.Contract, ic *runtime.Context, args []byte) (any, []runtime.Event, error)
}

var methods = map[string]method{
	MethodNew: {call: func(c *ftcontract.Contract, ic *runtime.Context, args []byte) (any, []runtime.Event, error) {
		var a NewArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, nil, err
		}
		if err := requireField(a.OwnerID != "", "owner_id"); err != nil {
			return nil, nil, err
		}
		if err := requireField(a.TotalSupply != nil, "total_supply"); err != nil {
			return nil, nil, err
		}
		if err := requireField(a.Metadata != nil, "metadata"); err != nil {
			return nil, nil, err
		}

		evs, err := c.Initialize(ic, a.OwnerID, a.TotalSupply.Uint128(), *a.Metadata)
		return nil, evs, err
	}},
	MethodTransfer: {call: func(c *ftcontract.Contract, ic *runtime.Context, args []byte) (any, []runtime.Event, error) {
		var a TransferArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, nil, err
		}
		if err := requireField(a.ReceiverID != "", "receiver_id"); err != nil {
			return nil, nil, err
		}
		if err := requireField(a.Amount != nil, "amount"); err != nil {
			return nil, nil, err
		}

		evs, err := c.Transfer(ic, a.ReceiverID, a.Amount.Uint128(), deref(a.Memo))
		return nil, evs, err
	}},
	MethodMint: {call: func(c *ftcontract.Contract, ic *runtime.Context, args []byte) (any, []runtime.Event, error) {
		var a MintArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, nil, err
		}
		if err := requireField(a.AccountID != "", "account_id"); err != nil {
			return nil, nil, err
		}
		if err := requireField(a.Amount != nil, "amount"); err != nil {
			return nil, nil, err
		}

		evs, err := c.Mint(ic, a.AccountID, a.Amount.Uint128(), deref(a.Memo))
		return nil, evs, err
	}},
	MethodBurn: {call: func(c *ftcontract.Contract, ic *runtime.Context, args []byte) (any, []runtime.Event, error) {
		var a BurnArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, nil, err
		}
		if err := requireField(a.Amount != nil, "amount"); err != nil {
			return nil, nil, err
		}

		evs, err := c.Burn(ic, a.Amount.Uint128(), deref(a.Memo))
		return nil, evs, err
	}},
	MethodStorageDeposit: {call: func(c *ftcontract.Contract, ic *runtime.Context, args []byte) (any, []runtime.Event, error) {
		var a StorageDepositArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, nil, err
		}

		bal, err := c.StorageDeposit(ic, deref(a.AccountID), a.RegistrationOnly != nil && *a.RegistrationOnly)
		if err != nil {
			return nil, nil, err
		}
		return bal, nil, nil
	}},
	MethodStorageWithdraw: {call: func(c *ftcontract.Contract, ic *runtime.Context, args []byte) (any, []runtime.Event, error) {
		var a StorageWithdrawArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, nil, err
		}

		var amount *uint128.Uint128
		if a.Amount != nil {
			v := a.Amount.Uint128()
			amount = &v
		}

		bal, err := c.StorageWithdraw(ic, amount)
		if err != nil {
			return nil, nil, err
		}
		return bal, nil, nil
	}},
	MethodStorageUnregister: {call: func(c *ftcontract.Contract, ic *runtime.Context, args []byte) (any, []runtime.Event, error) {
		var a StorageUnregisterArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, nil, err
		}

		evs, err := c.StorageUnregister(ic, a.Force != nil && *a.Force)
		if err != nil {
			return nil, nil, err
		}
		return true, evs, nil
	}},
	MethodBalanceOf: {view: true, call: func(c *ftcontract.Contract, ic *runtime.Context, args []byte) (any, []runtime.Event, error) {
		var a AccountArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, nil, err
		}

		bal, err := c.BalanceOf(ic, a.AccountID)
		return ftcontract.U128(bal), nil, err
	}},
	MethodTotalSupply: {view: true, call: func(c *ftcontract.Contract, ic *runtime.Context, _ []byte) (any, []runtime.Event, error) {
		supply, err := c.TotalSupply(ic)
		return ftcontract.U128(supply), nil, err
	}},
	MethodMetadata: {view: true, call: func(c *ftcontract.Contract, ic *runtime.Context, _ []byte) (any, []runtime.Event, error) {
		m, err := c.Metadata(ic)
		return m, nil, err
	}},
	MethodStorageBalanceBounds: {view: true, call: func(c *ftcontract.Contract, ic *runtime.Context, _ []byte) (any, []runtime.Event, error) {
		b, err := c.StorageBalanceBounds(ic)
		return b, nil, err
	}},
	MethodStorageBalanceOf: {view: true, call: func(c *ftcontract.Contract, ic *runtime.Context, args []byte) (any, []runtime.Event, error) {
		var a AccountArgs
		if err := decodeArgs(args, &a); err != nil {
			return nil, nil, err
		}

		bal, err := c.StorageBalanceOf(ic, a.AccountID)
		return bal, nil, err
	}},
	MethodOwner: {view: true, call: func(c *ftcontract.Contract, ic *runtime.Context, _ []byte) (any, []runtime.Event, error) {
		o, err := c.Owner(ic)
		return o, nil, err
	}},
	MethodVersion: {view: true, call: func(c *ftcontract.Contract, _ *runtime.Context, _ []byte) (any, []runtime.Event, error) {
		return c.Version(), nil, nil
	}},
}

func deref[T any](p *T) T {
	var v T
	if p != nil {
		v = *p
	}
	return v
}
