package ft

import (
	"encoding/json"

	"lukechampine.com/uint128"
)

const (
	eventStandard = "nep141"
	eventVersion  = "1.0.0"

	// EventLogPrefix starts every published event log line.
	EventLogPrefix = "EVENT_JSON:"
)

type eventLog struct {
	Standard string `json:"standard"`
	Version  string `json:"version"`
	Event    string `json:"event"`
	Data     any    `json:"data"`
}

func formatEvent(name string, data any) string {
	// payloads consist of strings only, encoding can't fail
	b, _ := json.Marshal(eventLog{
		Standard: eventStandard,
		Version:  eventVersion,
		Event:    name,
		Data:     data,
	})
	return EventLogPrefix + string(b)
}

// MintEvent is produced when new tokens are credited to an account.
type MintEvent struct {
	Owner  string
	Amount uint128.Uint128
	Memo   string
}

// Name implements runtime.Event.
func (MintEvent) Name() string { return "ft_mint" }

// String implements runtime.Event.
func (e MintEvent) String() string {
	return formatEvent(e.Name(), []ownerData{{
		OwnerID: e.Owner,
		Amount:  U128(e.Amount),
		Memo:    e.Memo,
	}})
}

// BurnEvent is produced when tokens are removed from an account.
type BurnEvent struct {
	Owner  string
	Amount uint128.Uint128
	Memo   string
}

// Name implements runtime.Event.
func (BurnEvent) Name() string { return "ft_burn" }

// String implements runtime.Event.
func (e BurnEvent) String() string {
	return formatEvent(e.Name(), []ownerData{{
		OwnerID: e.Owner,
		Amount:  U128(e.Amount),
		Memo:    e.Memo,
	}})
}

// TransferEvent is produced when tokens move between accounts.
type TransferEvent struct {
	Sender   string
	Receiver string
	Amount   uint128.Uint128
	Memo     string
}

// Name implements runtime.Event.
func (TransferEvent) Name() string { return "ft_transfer" }

// String implements runtime.Event.
func (e TransferEvent) String() string {
	return formatEvent(e.Name(), []transferData{{
		OldOwnerID: e.Sender,
		NewOwnerID: e.Receiver,
		Amount:     U128(e.Amount),
		Memo:       e.Memo,
	}})
}

type ownerData struct {
	OwnerID string `json:"owner_id"`
	Amount  U128   `json:"amount"`
	Memo    string `json:"memo,omitempty"`
}

type transferData struct {
	OldOwnerID string `json:"old_owner_id"`
	NewOwnerID string `json:"new_owner_id"`
	Amount     U128   `json:"amount"`
	Memo       string `json:"memo,omitempty"`
}
