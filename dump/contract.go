package dump

import (
	"errors"
	"fmt"

	"github.com/nspcc-dev/ft-ledger/contracts/ft"
	"github.com/nspcc-dev/ft-ledger/runtime"
	"go.uber.org/multierr"
)

// Summary is a human-readable description of the dumped contract state.
type Summary struct {
	Owner        string      `json:"owner"`
	TotalSupply  ft.U128     `json:"total_supply"`
	Accounts     int         `json:"accounts"`
	StorageUsage uint64      `json:"storage_usage"`
	Metadata     ft.Metadata `json:"metadata"`
}

// Collect reads summary of the contract state committed to the host.
func Collect(h *runtime.Host, c *ft.Contract) (Summary, error) {
	var res Summary

	err := h.View(func(ic *runtime.Context) error {
		var err error

		res.Owner, err = c.Owner(ic)
		if err != nil {
			return fmt.Errorf("read owner: %w", err)
		}

		supply, err := c.TotalSupply(ic)
		if err != nil {
			return fmt.Errorf("read total supply: %w", err)
		}
		res.TotalSupply = ft.U128(supply)

		res.Metadata, err = c.Metadata(ic)
		if err != nil {
			return fmt.Errorf("read metadata: %w", err)
		}

		return nil
	})
	if err != nil {
		return res, err
	}

	h.IterateStorage(func(key, _ []byte) bool {
		if len(key) > 0 && key[0] == ft.AccountPrefix {
			res.Accounts++
		}
		return true
	})

	res.StorageUsage = h.StorageUsage()

	return res, nil
}

// Dump writes committed state of the contract into a new dump in the
// directory and returns its ID.
func Dump(h *runtime.Host, c *ft.Contract, dir, label string) (id ID, err error) {
	s, err := Collect(h, c)
	if err != nil {
		return id, err
	}

	id = ID{Label: label, Height: h.Height()}

	d, err := NewCreator(dir, id)
	if err != nil {
		return id, fmt.Errorf("init dump creator: %w", err)
	}

	defer func() {
		err = multierr.Append(err, d.Close())
	}()

	d.SetSummary(s)

	var wErr error

	h.IterateStorage(func(key, value []byte) bool {
		wErr = d.Write(key, value)
		return wErr == nil
	})
	if wErr != nil {
		return id, wErr
	}

	if err = d.Flush(); err != nil {
		return id, fmt.Errorf("flush dump: %w", err)
	}

	return id, nil
}

// Restore imports storage items of the dump into the host. The host storage
// must not contain contract items. Restored state is checked against the
// summary of the dump.
func Restore(r *Reader, h *runtime.Host, c *ft.Contract) error {
	var (
		empty = true
		items []runtime.KeyValue
	)

	h.IterateStorage(func([]byte, []byte) bool {
		empty = false
		return false
	})
	if !empty {
		return errors.New("contract storage is not empty")
	}

	r.IterateStorage(func(key, value []byte) {
		items = append(items, runtime.KeyValue{Key: key, Value: value})
	})

	err := h.Import(items)
	if err != nil {
		return fmt.Errorf("import storage items: %w", err)
	}

	s, err := Collect(h, c)
	if err != nil {
		return fmt.Errorf("read restored state: %w", err)
	}

	expected := r.Summary()
	switch {
	case s.TotalSupply != expected.TotalSupply:
		return fmt.Errorf("total supply mismatch: dumped %s, restored %s", expected.TotalSupply, s.TotalSupply)
	case s.Accounts != expected.Accounts:
		return fmt.Errorf("accounts number mismatch: dumped %d, restored %d", expected.Accounts, s.Accounts)
	case s.StorageUsage != expected.StorageUsage:
		return fmt.Errorf("storage usage mismatch: dumped %d, restored %d", expected.StorageUsage, s.StorageUsage)
	}

	return nil
}
