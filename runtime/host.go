package runtime

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// hostStateKey is a key of host bookkeeping record, it is located outside of
// the contract item prefix and is not metered.
var hostStateKey = []byte{0xf1}

// Prm groups Host parameters.
type Prm struct {
	// Writes call progress and published events into the log. Optional.
	Logger *zap.Logger

	// Underlying persistent storage. Required.
	Store storage.Store

	// Transfers refunds to callers. Defaults to MemoryPayouts.
	Payouts Payouts

	// Registers host metrics if set.
	Registerer prometheus.Registerer
}

// KeyValue is a raw contract storage item.
type KeyValue struct {
	Key   []byte
	Value []byte
}

type hostState struct {
	// Number of bytes held by the contract.
	Usage uint64
	// Number of committed calls.
	Height uint64
}

// EncodeBinary implements io.Serializable.
func (s *hostState) EncodeBinary(w *io.BinWriter) {
	w.WriteU64LE(s.Usage)
	w.WriteU64LE(s.Height)
}

// DecodeBinary implements io.Serializable.
func (s *hostState) DecodeBinary(r *io.BinReader) {
	s.Usage = r.ReadU64LE()
	s.Height = r.ReadU64LE()
}

// Host executes contract calls over the underlying store. Calls are
// serialized: the next call (or view) starts only after the previous one is
// completely committed or dropped.
type Host struct {
	mtx sync.Mutex

	log     *zap.Logger
	store   storage.Store
	payouts Payouts
	metrics *hostMetrics

	state hostState
}

// New returns Host working over prm.Store. Host state persisted by previous
// runs is restored from the store.
func New(prm Prm) (*Host, error) {
	if prm.Store == nil {
		return nil, errors.New("missing store")
	}

	h := &Host{
		log:     prm.Logger,
		store:   prm.Store,
		payouts: prm.Payouts,
		metrics: newHostMetrics(),
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if h.payouts == nil {
		h.payouts = NewMemoryPayouts()
	}

	if prm.Registerer != nil {
		if err := h.metrics.register(prm.Registerer); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	data, err := h.store.Get(hostStateKey)
	switch {
	case err == nil:
		r := io.NewBinReaderFromBuf(data)
		h.state.DecodeBinary(r)
		if r.Err != nil {
			return nil, fmt.Errorf("decode host state: %w", r.Err)
		}
	case errors.Is(err, storage.ErrKeyNotFound):
	default:
		return nil, fmt.Errorf("read host state: %w", err)
	}

	h.metrics.storageUsage.Set(float64(h.state.Usage))

	return h, nil
}

// StorageUsage returns the number of bytes held by the contract.
func (h *Host) StorageUsage() uint64 {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.state.Usage
}

// Height returns the number of committed calls.
func (h *Host) Height() uint64 {
	h.mtx.Lock()
	defer h.mtx.Unlock()
	return h.state.Height
}

// Invoke executes fn within a new call Context and commits its results if fn
// succeeds. On error nothing is changed and the error is returned as is.
func (h *Host) Invoke(call Call, fn func(*Context) ([]Event, error)) (*Receipt, error) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	ic := h.newContext(call, false)

	r, err := h.invoke(ic, fn)
	h.metrics.observeCall(call.Method, err)
	if err != nil {
		ic.log.Debug("call failed, changes are dropped", zap.Error(err))
		return nil, err
	}

	return r, nil
}

func (h *Host) invoke(ic *Context, fn func(*Context) ([]Event, error)) (*Receipt, error) {
	evs, err := fn(ic)
	if err != nil {
		return nil, err
	}

	payout, err := ic.payout()
	if err != nil {
		return nil, err
	}

	st := hostState{
		Usage:  ic.usage,
		Height: h.state.Height + 1,
	}

	w := io.NewBufBinWriter()
	st.EncodeBinary(w.BinWriter)
	ic.store.Put(hostStateKey, w.Bytes())

	if _, err = ic.store.Persist(); err != nil {
		return nil, fmt.Errorf("persist call changes: %w", err)
	}

	r := &Receipt{
		ID:                 ic.id,
		Call:               ic.call,
		Events:             evs,
		Logs:               ic.logs,
		StorageUsageBefore: h.state.Usage,
		StorageUsageAfter:  st.Usage,
	}

	h.state = st
	h.metrics.storageUsage.Set(float64(st.Usage))

	for _, ev := range evs {
		ic.log.Info("event", zap.String("name", ev.Name()), zap.String("data", ev.String()))
	}

	if !payout.IsZero() {
		p := Payout{
			Receiver: ic.call.Caller,
			Amount:   payout,
		}

		p.Err = h.payouts.Transfer(p.Receiver, p.Amount)
		h.metrics.payouts.Inc()
		if p.Err != nil {
			h.metrics.payoutFailures.Inc()
			ic.log.Error("payout failed", zap.Stringer("amount", p.Amount), zap.Error(p.Err))
		} else {
			ic.log.Debug("payout", zap.Stringer("amount", p.Amount))
		}

		r.Payouts = append(r.Payouts, p)
	}

	return r, nil
}

// View executes read-only fn over the committed state.
func (h *Host) View(fn func(*Context) error) error {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	return fn(h.newContext(Call{Method: "view"}, true))
}

// IterateStorage passes all committed contract items to f until it returns
// false.
func (h *Host) IterateStorage(f func(key, value []byte) bool) {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	h.store.Seek(storage.SeekRange{Prefix: []byte{byte(storage.STStorage)}}, func(k, v []byte) bool {
		return f(bytes.Clone(k[1:]), bytes.Clone(v))
	})
}

// Import puts raw items into the contract storage bypassing contract logic.
// Storage usage is updated accordingly.
func (h *Host) Import(items []KeyValue) error {
	_, err := h.Invoke(Call{Method: "import"}, func(ic *Context) ([]Event, error) {
		for i := range items {
			if err := ic.Put(items[i].Key, items[i].Value); err != nil {
				return nil, fmt.Errorf("put item #%d: %w", i, err)
			}
		}
		return nil, nil
	})
	return err
}

// Close closes the underlying store.
func (h *Host) Close() error {
	return h.store.Close()
}

func (h *Host) newContext(call Call, readOnly bool) *Context {
	ic := &Context{
		id:       uuid.New(),
		call:     call,
		store:    storage.NewMemCachedStore(h.store),
		readOnly: readOnly,
		usage:    h.state.Usage,
	}

	ic.log = h.log.With(
		zap.Stringer("call", ic.id),
		zap.String("method", call.Method),
		zap.String("caller", call.Caller),
	)

	return ic
}
