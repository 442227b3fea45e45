/*
Package trade implements a two-party token swap with no middleman.

An authority starts a trade by naming the price: it deposits the
offered tokens into a vault and declares which tokens it wants in
return. Anyone holding the requested tokens may execute the trade,
which settles both legs in one step. Until then the authority can
cancel and get the deposit back. A finished trade is removed with
delete.

Trades and their vaults live at addresses derived deterministically
from the trade nonce, so both parties can compute them offline. The
vault address has no private key, only this extension can order the
ledger to release vault funds.
*/
package trade
