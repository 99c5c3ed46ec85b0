package ft

import (
	"encoding/json"
	"fmt"

	"lukechampine.com/uint128"
)

// U128 is a token amount which is encoded in JSON as a base-10 string.
type U128 uint128.Uint128

// NewU128 converts uint64 to U128.
func NewU128(v uint64) U128 {
	return U128(uint128.From64(v))
}

// Uint128 returns the amount as uint128.Uint128.
func (x U128) Uint128() uint128.Uint128 {
	return uint128.Uint128(x)
}

// String returns base-10 representation of the amount.
func (x U128) String() string {
	return uint128.Uint128(x).String()
}

// MarshalJSON implements json.Marshaler.
func (x U128) MarshalJSON() ([]byte, error) {
	return json.Marshal(x.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (x *U128) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("amount must be a base-10 string: %w", err)
	}

	v, err := uint128.FromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount '%s': %w", s, err)
	}

	*x = U128(v)

	return nil
}

// add returns a+b or ErrBalanceOverflow.
func add(a, b uint128.Uint128) (uint128.Uint128, error) {
	sum := a.AddWrap(b)
	if sum.Cmp(a) < 0 {
		return uint128.Zero, ErrBalanceOverflow
	}
	return sum, nil
}

// sub returns a-b or ErrInsufficientBalance.
func sub(a, b uint128.Uint128) (uint128.Uint128, error) {
	if a.Cmp(b) < 0 {
		return uint128.Zero, ErrInsufficientBalance
	}
	return a.Sub(b), nil
}

// mul64 returns a*b or ErrBalanceOverflow.
func mul64(a uint128.Uint128, b uint64) (uint128.Uint128, error) {
	if b != 0 && a.Cmp(uint128.Max.Div64(b)) > 0 {
		return uint128.Zero, ErrBalanceOverflow
	}
	return a.Mul64(b), nil
}
