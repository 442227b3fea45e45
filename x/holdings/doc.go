/*
Package holdings is the custody ledger. It tracks which address owns
how much of which mint and is the only place where balances change.

Other extensions move funds through the Controller interface. There
are no transfer messages here on purpose, every movement must be
ordered by an extension that can justify it, like a trade settling
or a vault refunding its depositor.
*/
package holdings
