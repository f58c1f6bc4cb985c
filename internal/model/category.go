// Package model holds the ledger's records and the named result shapes of
// every report query.
package model

// Category groups expenses. Categories are soft-deleted, never removed.
type Category struct {
	Name      string
	ID        int64
	IsDeleted bool
}
