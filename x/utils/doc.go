/*
Package utils contains decorators shared by every handler: panic recovery,
logging, metrics and savepoints that make each transaction all or nothing.
*/
package utils
