/*
Package ft implements fungible token contract with deposit-backed storage
accounting.

The contract keeps per-account balances and the total supply. An account must
be registered before it can hold tokens: registration creates a zero-balance
entry and the caller pays for its storage with the attached deposit. Every
mutating method measures contract storage usage before and after the change,
charges the growth from the attached deposit and refunds the released bytes,
so nobody is able to grow contract state for free. Unspent deposit is always
refunded.

Storage layout

  'a' + account ID: balance, 16 bytes little endian
  's': total supply, per-account storage usage and owner
  'm': metadata

Contract notifications

Events are published as 'EVENT_JSON:' prefixed log lines of the NEP-141
format.

  ft_mint:
    - name: owner_id
      type: string
    - name: amount
      type: base-10 string
    - name: memo
      type: string, optional

  ft_transfer:
    - name: old_owner_id
      type: string
    - name: new_owner_id
      type: string
    - name: amount
      type: base-10 string
    - name: memo
      type: string, optional

  ft_burn:
    - name: owner_id
      type: string
    - name: amount
      type: base-10 string
    - name: memo
      type: string, optional
*/
package ft
