package ft

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/ft-ledger/common"
	"github.com/nspcc-dev/ft-ledger/runtime"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"lukechampine.com/uint128"
)

const (
	// AccountPrefix is a storage key prefix of account balances.
	AccountPrefix = 'a'
	ledgerKey     = 's'
	metadataKey   = 'm'

	balanceSize = 16

	// MinAccountIDLen and MaxAccountIDLen bound the length of account
	// identifiers in bytes.
	MinAccountIDLen = 2
	MaxAccountIDLen = 64

	maxOwnerLen = MaxAccountIDLen
)

// ledgerState is the ledger record: total supply and bookkeeping values
// which don't belong to any account.
type ledgerState struct {
	TotalSupply uint128.Uint128
	// Price of one byte of contract storage fixed at initialization.
	StorageByteCost uint128.Uint128
	// Storage usage of a single account entry with the longest ID.
	AccountStorageUsage uint64
	Owner               string
}

// EncodeBinary implements io.Serializable.
func (s *ledgerState) EncodeBinary(w *io.BinWriter) {
	var buf [balanceSize]byte
	s.TotalSupply.PutBytes(buf[:])
	w.WriteBytes(buf[:])
	s.StorageByteCost.PutBytes(buf[:])
	w.WriteBytes(buf[:])
	w.WriteU64LE(s.AccountStorageUsage)
	w.WriteString(s.Owner)
}

// DecodeBinary implements io.Serializable.
func (s *ledgerState) DecodeBinary(r *io.BinReader) {
	var buf [balanceSize]byte
	r.ReadBytes(buf[:])
	s.TotalSupply = uint128.FromBytes(buf[:])
	r.ReadBytes(buf[:])
	s.StorageByteCost = uint128.FromBytes(buf[:])
	s.AccountStorageUsage = r.ReadU64LE()
	s.Owner = r.ReadString(maxOwnerLen)
}

// Ledger is the account balance map together with the total supply counter.
// It works directly over the contract storage of the current call, so every
// change is committed or dropped along with the call.
type Ledger struct {
	st    common.Storage
	state ledgerState
}

func newLedger(st common.Storage) *Ledger {
	return &Ledger{st: st}
}

func loadLedger(st common.Storage) (*Ledger, error) {
	l := newLedger(st)

	err := common.GetSerialized(st, []byte{ledgerKey}, &l.state)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	return l, nil
}

func (l *Ledger) flush() error {
	return common.SetSerialized(l.st, []byte{ledgerKey}, &l.state)
}

// AccountKey returns storage key of the account balance.
func AccountKey(account string) []byte {
	return append([]byte{AccountPrefix}, account...)
}

// ValidateAccountID checks account identifier length.
func ValidateAccountID(account string) error {
	if len(account) < MinAccountIDLen || len(account) > MaxAccountIDLen {
		return fmt.Errorf("%w: '%s' must be %d to %d bytes long",
			ErrInvalidAccountID, account, MinAccountIDLen, MaxAccountIDLen)
	}
	return nil
}

func (l *Ledger) balance(account string) (uint128.Uint128, bool, error) {
	data, err := l.st.Get(AccountKey(account))
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return uint128.Zero, false, nil
		}
		return uint128.Zero, false, fmt.Errorf("read balance of %s: %w", account, err)
	}

	if len(data) != balanceSize {
		return uint128.Zero, false, fmt.Errorf("invalid balance record of %s: %d bytes", account, len(data))
	}

	return uint128.FromBytes(data), true, nil
}

func (l *Ledger) setBalance(account string, v uint128.Uint128) error {
	var buf [balanceSize]byte
	v.PutBytes(buf[:])
	return l.st.Put(AccountKey(account), buf[:])
}

// IsRegistered checks whether the account has a balance entry.
func (l *Ledger) IsRegistered(account string) (bool, error) {
	_, ok, err := l.balance(account)
	return ok, err
}

// BalanceOf returns balance of the account. Unregistered accounts have zero
// balance.
func (l *Ledger) BalanceOf(account string) (uint128.Uint128, error) {
	bal, _, err := l.balance(account)
	return bal, err
}

// TotalSupply returns the sum of all balances.
func (l *Ledger) TotalSupply() uint128.Uint128 {
	return l.state.TotalSupply
}

// Register creates zero-balance entry for the account. It returns false if
// the account is already registered.
func (l *Ledger) Register(account string) (bool, error) {
	ok, err := l.IsRegistered(account)
	if err != nil || ok {
		return false, err
	}

	if err = l.setBalance(account, uint128.Zero); err != nil {
		return false, err
	}

	return true, nil
}

// Unregister removes entry of the account and returns its balance. Positive
// balance is burned if force is set, the burn event is returned then.
func (l *Ledger) Unregister(account string, force bool) (uint128.Uint128, []runtime.Event, error) {
	bal, ok, err := l.balance(account)
	if err != nil {
		return uint128.Zero, nil, err
	}
	if !ok {
		return uint128.Zero, nil, fmt.Errorf("%w: %s", ErrAccountNotFound, account)
	}
	if !bal.IsZero() && !force {
		return uint128.Zero, nil, fmt.Errorf("%w: %s holds %s", ErrNonZeroBalance, account, bal)
	}

	if err = l.st.Delete(AccountKey(account)); err != nil {
		return uint128.Zero, nil, err
	}

	if bal.IsZero() {
		return bal, nil, nil
	}

	supply, err := sub(l.state.TotalSupply, bal)
	if err != nil {
		return uint128.Zero, nil, fmt.Errorf("total supply %s is less than balance of %s", l.state.TotalSupply, account)
	}

	l.state.TotalSupply = supply
	if err = l.flush(); err != nil {
		return uint128.Zero, nil, err
	}

	return bal, []runtime.Event{BurnEvent{Owner: account, Amount: bal}}, nil
}

// Deposit mints amount to the registered account.
func (l *Ledger) Deposit(account string, amount uint128.Uint128, memo string) (runtime.Event, error) {
	bal, ok, err := l.balance(account)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotRegistered, account)
	}

	newBal, err := add(bal, amount)
	if err != nil {
		return nil, fmt.Errorf("%w: balance of %s", err, account)
	}

	supply, err := add(l.state.TotalSupply, amount)
	if err != nil {
		return nil, fmt.Errorf("%w: total supply", err)
	}

	if err = l.setBalance(account, newBal); err != nil {
		return nil, err
	}

	l.state.TotalSupply = supply
	if err = l.flush(); err != nil {
		return nil, err
	}

	return MintEvent{Owner: account, Amount: amount, Memo: memo}, nil
}

// Withdraw burns amount from the registered account.
func (l *Ledger) Withdraw(account string, amount uint128.Uint128, memo string) (runtime.Event, error) {
	bal, ok, err := l.balance(account)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotRegistered, account)
	}

	newBal, err := sub(bal, amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %s has %s, requested %s", err, account, bal, amount)
	}

	supply, err := sub(l.state.TotalSupply, amount)
	if err != nil {
		return nil, fmt.Errorf("total supply %s is less than burned amount %s", l.state.TotalSupply, amount)
	}

	if err = l.setBalance(account, newBal); err != nil {
		return nil, err
	}

	l.state.TotalSupply = supply
	if err = l.flush(); err != nil {
		return nil, err
	}

	return BurnEvent{Owner: account, Amount: amount, Memo: memo}, nil
}

// Transfer moves amount from sender to receiver, both must be registered.
// Both new balances are computed before any of them is written.
func (l *Ledger) Transfer(sender, receiver string, amount uint128.Uint128, memo string) (runtime.Event, error) {
	if sender == receiver {
		return nil, ErrSelfTransfer
	}
	if amount.IsZero() {
		return nil, ErrZeroAmount
	}

	senderBal, ok, err := l.balance(sender)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: sender %s", ErrAccountNotRegistered, sender)
	}

	receiverBal, ok, err := l.balance(receiver)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: receiver %s", ErrAccountNotRegistered, receiver)
	}

	newSenderBal, err := sub(senderBal, amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %s has %s, requested %s", err, sender, senderBal, amount)
	}

	newReceiverBal, err := add(receiverBal, amount)
	if err != nil {
		return nil, fmt.Errorf("%w: balance of %s", err, receiver)
	}

	if err = l.setBalance(sender, newSenderBal); err != nil {
		return nil, err
	}
	if err = l.setBalance(receiver, newReceiverBal); err != nil {
		return nil, err
	}

	return TransferEvent{
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
		Memo:     memo,
	}, nil
}
