package runtime

import (
	"errors"
	"fmt"
	"sync"

	"lukechampine.com/uint128"
)

// Payouts transfers native assets from the contract account to other
// accounts. It is invoked by the Host after a call is committed.
type Payouts interface {
	Transfer(receiver string, amount uint128.Uint128) error
}

// ErrReceivedOverflow is returned by MemoryPayouts when the total amount
// received by an account doesn't fit into 128 bits.
var ErrReceivedOverflow = errors.New("received amount overflow")

// MemoryPayouts is an in-memory Payouts which accumulates transferred amounts
// per receiver. Transfers overflowing the receiver's total are rejected and
// leave it unchanged.
type MemoryPayouts struct {
	mtx      sync.Mutex
	received map[string]uint128.Uint128
}

// NewMemoryPayouts returns empty MemoryPayouts.
func NewMemoryPayouts() *MemoryPayouts {
	return &MemoryPayouts{received: make(map[string]uint128.Uint128)}
}

// Transfer implements Payouts.
func (x *MemoryPayouts) Transfer(receiver string, amount uint128.Uint128) error {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	prev := x.received[receiver]
	sum := prev.AddWrap(amount)
	if sum.Cmp(prev) < 0 {
		return fmt.Errorf("%w: %s to %s", ErrReceivedOverflow, amount, receiver)
	}

	x.received[receiver] = sum

	return nil
}

// Received returns the total amount transferred to the receiver so far.
func (x *MemoryPayouts) Received(receiver string) uint128.Uint128 {
	x.mtx.Lock()
	defer x.mtx.Unlock()
	return x.received[receiver]
}
