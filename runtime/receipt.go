package runtime

import (
	"crypto/sha256"
	"encoding/binary"
	"io"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"lukechampine.com/uint128"
)

// Call describes environment of a single contract invocation provided by the
// hosting side.
type Call struct {
	// Method name, used in logs and metrics only.
	Method string
	// Caller is the identity of the account invoking the contract.
	Caller string
	// Deposit is the payment attached to the call.
	Deposit uint128.Uint128
}

// Event is a structured notification produced by a contract call.
type Event interface {
	// Name returns event name, e.g. 'ft_transfer'.
	Name() string
	// String returns event log line as it is published.
	String() string
}

// Payout is a transfer of the native asset back to an account issued after
// a call is committed.
type Payout struct {
	Receiver string
	Amount   uint128.Uint128
	// Err is set if Payouts failed to transfer the amount.
	Err error
}

// Receipt is the outcome of a successfully committed call.
type Receipt struct {
	ID   uuid.UUID
	Call Call

	Events  []Event
	Logs    []string
	Payouts []Payout

	// StorageUsageBefore and StorageUsageAfter are contract storage usage
	// in bytes around the call.
	StorageUsageBefore uint64
	StorageUsageAfter  uint64
}

// Hash returns base58-encoded SHA-256 digest of the receipt content.
func (r *Receipt) Hash() string {
	var (
		h   = sha256.New()
		buf [16]byte
	)

	h.Write(r.ID[:])
	writeString(h, r.Call.Method)
	writeString(h, r.Call.Caller)
	r.Call.Deposit.PutBytes(buf[:])
	h.Write(buf[:])

	for _, ev := range r.Events {
		writeString(h, ev.String())
	}
	for _, l := range r.Logs {
		writeString(h, l)
	}
	for _, p := range r.Payouts {
		writeString(h, p.Receiver)
		p.Amount.PutBytes(buf[:])
		h.Write(buf[:])
	}

	binary.LittleEndian.PutUint64(buf[:8], r.StorageUsageBefore)
	binary.LittleEndian.PutUint64(buf[8:], r.StorageUsageAfter)
	h.Write(buf[:])

	return base58.Encode(h.Sum(nil))
}

func writeString(w io.Writer, s string) {
	var l [4]byte
	binary.LittleEndian.PutUint32(l[:], uint32(len(s)))
	_, _ = w.Write(l[:])
	_, _ = w.Write([]byte(s))
}
