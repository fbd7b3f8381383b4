/*
Package crypto holds the ed25519 keys used to sign transactions. The
address of a key is its raw 32-byte public key.
*/
package crypto
