/*
Package cash keeps the native balance (lamports) of every address.

Lamports pay for storage: creating any account moves the rent exempt
minimum for its data size from a payer into the account address, and
closing the account moves it back. Balances may never go below zero or
overflow.
*/
package cash
