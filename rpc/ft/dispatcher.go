// Package ft provides JSON bindings for the fungible token contract: methods
// are addressed by name and take JSON-encoded arguments, amounts are base-10
// strings.
package ft

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	ftcontract "github.com/nspcc-dev/ft-ledger/contracts/ft"
	"github.com/nspcc-dev/ft-ledger/runtime"
	"lukechampine.com/uint128"
)

var (
	// ErrUnknownMethod is returned for method names the contract doesn't
	// expose.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrInvalidArguments is returned when method arguments can't be decoded
	// or miss required fields.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrMethodKind is returned on attempt to invoke a read-only method as a
	// call or vice versa.
	ErrMethodKind = errors.New("method kind mismatch")
)

// Dispatcher routes named JSON calls to the contract running on the host.
type Dispatcher struct {
	host     *runtime.Host
	contract *ftcontract.Contract
}

// New returns Dispatcher of contract calls executed by the host.
func New(h *runtime.Host, c *ftcontract.Contract) *Dispatcher {
	return &Dispatcher{host: h, contract: c}
}

// Methods returns sorted names of all supported methods.
func Methods() []string {
	res := make([]string, 0, len(methods))
	for name := range methods {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// IsView checks whether the method is read-only.
func IsView(name string) bool {
	m, ok := methods[name]
	return ok && m.view
}

// Call invokes state-changing method on behalf of the caller with the
// attached deposit. JSON-encoded result is returned along with the receipt of
// the committed call.
func (d *Dispatcher) Call(caller string, deposit uint128.Uint128, name string, args []byte) (json.RawMessage, *runtime.Receipt, error) {
	m, err := lookup(name, false)
	if err != nil {
		return nil, nil, err
	}

	var res any

	r, err := d.host.Invoke(runtime.Call{Method: name, Caller: caller, Deposit: deposit}, func(ic *runtime.Context) ([]runtime.Event, error) {
		var (
			evs []runtime.Event
			err error
		)
		res, evs, err = m.call(d.contract, ic, args)
		return evs, err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", name, err)
	}

	data, err := json.Marshal(res)
	if err != nil {
		return nil, r, fmt.Errorf("encode %s result: %w", name, err)
	}

	return data, r, nil
}

// View executes read-only method and returns its JSON-encoded result.
func (d *Dispatcher) View(name string, args []byte) (json.RawMessage, error) {
	m, err := lookup(name, true)
	if err != nil {
		return nil, err
	}

	var res any

	err = d.host.View(func(ic *runtime.Context) error {
		var err error
		res, _, err = m.call(d.contract, ic, args)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	data, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode %s result: %w", name, err)
	}

	return data, nil
}

func lookup(name string, view bool) (method, error) {
	m, ok := methods[name]
	if !ok {
		return method{}, fmt.Errorf("%w '%s'", ErrUnknownMethod, name)
	}
	if m.view != view {
		if m.view {
			return method{}, fmt.Errorf("%w: '%s' is read-only", ErrMethodKind, name)
		}
		return method{}, fmt.Errorf("%w: '%s' changes state", ErrMethodKind, name)
	}
	return m, nil
}

// decodeArgs decodes JSON object into v rejecting unknown fields. Empty input
// means no arguments.
func decodeArgs(args []byte, v any) error {
	if len(bytes.TrimSpace(args)) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}

	return nil
}

func requireField(ok bool, field string) error {
	if !ok {
		return fmt.Errorf("%w: missing %s", ErrInvalidArguments, field)
	}
	return nil
}
