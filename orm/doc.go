/*
Package orm provides an easy to use db wrapper.

State space is broken into prefixed sections called buckets. Each bucket
holds only one type of model, addressed by a primary key, and may keep any
number of secondary indexes that are updated whenever a model is put or
deleted.
*/
package orm
