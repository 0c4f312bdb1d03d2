// Package bitmap provides the compressed row-id sets used for dimension postings,
// filter masks and group membership.
package bitmap
