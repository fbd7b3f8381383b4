/*
Package ledgertest provides mocks and helpers for testing handlers,
decorators and anything else built on the ledger package.
*/
package ledgertest
