/*
Package dump provides I/O operations for collected states of the fungible
token contract.

A dump consists of raw contract storage items and a human-readable summary of
the contract state at some height. Dumps make it possible to move the ledger
between stores and to reproduce real states in tests.

The package works with dumps stored in the file system using human-readable
encoding.
*/
package dump
