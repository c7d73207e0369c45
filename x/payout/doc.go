/*
Package payout implements a one-shot compensation ledger.

An operator registers beneficiaries, each with a fixed compensation amount,
and then pays them out in bounded batches. The Ledger is an append-only
sequence of beneficiaries indexed by insertion position, with a side index
from address to position. The Distributor walks the ledger with a single
cursor, transferring each compensation from the reserve account and marking
the beneficiary as claimed. Every beneficiary is paid exactly once, in
registration order, and distribution can be resumed across any number of
transactions.

Registrations and claims are reported as deliver tags.
*/
package payout
