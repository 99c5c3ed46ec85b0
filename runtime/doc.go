/*
Package runtime implements the host side of contract execution.

Host executes contract calls one at a time. Each call gets a Context carrying
the caller identity, the attached deposit and a storage view layered over the
committed state. Every write through the Context is metered: the storage
usage counter tracks the number of bytes the contract holds, so the contract
can bill or refund state growth.

A call either commits completely or leaves no trace. If the call function
returns an error, the storage changes are dropped and nothing is paid out.
Otherwise the changes are persisted, events are published and only then the
scheduled refunds together with the unspent part of the deposit are paid back
to the caller through Payouts. Payout failures are logged and reported in the
Receipt, they never roll the committed call back.
*/
package runtime
