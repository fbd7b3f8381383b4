/*
Package api exposes a ledger over HTTP.

Transactions are submitted as JSON objects carrying the base64 encoded
transaction. Every other endpoint is a read only view of the latest
committed state. All responses are JSON, errors are rendered as

	{"errors": ["description"]}
*/
package api
