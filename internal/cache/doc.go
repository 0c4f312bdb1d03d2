// Package cache provides a byte-bounded LRU for fetched response documents.
package cache
