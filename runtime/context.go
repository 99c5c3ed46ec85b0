package runtime

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"go.uber.org/zap"
	"lukechampine.com/uint128"
)

// RecordOverhead is the number of bytes accounted for each storage item in
// addition to its key and value.
const RecordOverhead = 40

var (
	// ErrReadOnly is returned on attempt to modify storage from a view call.
	ErrReadOnly = errors.New("storage is read-only")
	// ErrDepositExceeded is returned by Context.Spend when the unspent part of
	// the deposit is less than requested.
	ErrDepositExceeded = errors.New("attached deposit exceeded")
	// ErrRefundOverflow is returned when the scheduled refunds do not fit
	// into 128 bits.
	ErrRefundOverflow = errors.New("refund overflow")
)

// RecordSize returns the number of bytes accounted for a storage item with
// the given key and value.
func RecordSize(key, value []byte) uint64 {
	return uint64(len(key)) + uint64(len(value)) + RecordOverhead
}

// Context is an environment of a single contract call. It implements
// common.Storage, all contract keys live in a dedicated prefix of the host
// store.
type Context struct {
	id   uuid.UUID
	call Call
	log  *zap.Logger

	store    *storage.MemCachedStore
	readOnly bool
	usage    uint64

	spent   uint128.Uint128
	refunds uint128.Uint128

	logs []string
}

// ID returns unique identifier of the call.
func (c *Context) ID() uuid.UUID {
	return c.id
}

// Caller returns identity of the account invoking the contract.
func (c *Context) Caller() string {
	return c.call.Caller
}

// Deposit returns the payment attached to the call.
func (c *Context) Deposit() uint128.Uint128 {
	return c.call.Deposit
}

// Unspent returns the part of the deposit not consumed by Spend yet.
func (c *Context) Unspent() uint128.Uint128 {
	return c.call.Deposit.Sub(c.spent)
}

// Spend consumes amount from the attached deposit.
func (c *Context) Spend(amount uint128.Uint128) error {
	if c.Unspent().Cmp(amount) < 0 {
		return fmt.Errorf("%w: need %s, unspent %s", ErrDepositExceeded, amount, c.Unspent())
	}

	c.spent = c.spent.Add(amount)

	return nil
}

// Refund schedules a payout of amount to the caller on top of the unspent
// deposit. The payout is made only if the call is committed.
func (c *Context) Refund(amount uint128.Uint128) error {
	sum := c.refunds.AddWrap(amount)
	if sum.Cmp(c.refunds) < 0 {
		return ErrRefundOverflow
	}

	c.refunds = sum

	return nil
}

// payout returns the total amount to be paid back to the caller.
func (c *Context) payout() (uint128.Uint128, error) {
	unspent := c.Unspent()

	sum := unspent.AddWrap(c.refunds)
	if sum.Cmp(unspent) < 0 {
		return uint128.Zero, ErrRefundOverflow
	}

	return sum, nil
}

// Log appends a plain-text message to the call logs.
func (c *Context) Log(msg string) {
	c.logs = append(c.logs, msg)
	c.log.Debug("contract log", zap.String("message", msg))
}

// Logger returns the logger bound to the call.
func (c *Context) Logger() *zap.Logger {
	return c.log
}

// StorageUsage returns the number of bytes currently held by the contract
// including changes made in this call.
func (c *Context) StorageUsage() uint64 {
	return c.usage
}

// Get implements common.Storage.
func (c *Context) Get(key []byte) ([]byte, error) {
	return c.store.Get(itemKey(key))
}

// Put implements common.Storage. Storage usage is updated with the size
// difference between the old item (if any) and the new one.
func (c *Context) Put(key, value []byte) error {
	if c.readOnly {
		return ErrReadOnly
	}

	k := itemKey(key)

	old, err := c.store.Get(k)
	switch {
	case err == nil:
		c.usage -= RecordSize(key, old)
	case errors.Is(err, storage.ErrKeyNotFound):
	default:
		return fmt.Errorf("read previous item: %w", err)
	}

	c.usage += RecordSize(key, value)
	c.store.Put(k, bytes.Clone(value))

	return nil
}

// Delete implements common.Storage. Deletion of a missing item is a no-op.
func (c *Context) Delete(key []byte) error {
	if c.readOnly {
		return ErrReadOnly
	}

	k := itemKey(key)

	old, err := c.store.Get(k)
	switch {
	case err == nil:
		c.usage -= RecordSize(key, old)
		c.store.Delete(k)
	case errors.Is(err, storage.ErrKeyNotFound):
	default:
		return fmt.Errorf("read previous item: %w", err)
	}

	return nil
}

func itemKey(key []byte) []byte {
	k := make([]byte, 1+len(key))
	k[0] = byte(storage.STStorage)
	copy(k[1:], key)
	return k
}
