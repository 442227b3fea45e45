/*
Package escrowtest provides common helpers for building tests: stub
authenticators, transaction wrappers and deterministic identities.

Keep this package dependent only on the root package, so that every
extension can use it without import cycles.
*/
package escrowtest
