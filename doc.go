/*
Package escrow defines the common interfaces that tie the extension
packages together: deterministic conditions and addresses, key-value
store contracts, messages, and handlers.

The swap protocol itself lives in x/trade. Holding accounts and the
custody ledger live in x/holdings. The app package combines a router
with a cache-wrapped store so that every operation applies atomically
or not at all.
*/
package escrow
