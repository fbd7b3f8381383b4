/*
Package sigs provides basic authentication middleware to verify the
signatures on the transaction, and maintain sequences for replay
protection.
*/
package sigs
