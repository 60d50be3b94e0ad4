package dbx

import "go.etcd.io/bbolt"

// Bolt runs bbolt closures either in their own transaction (DB set) or in
// an already open one (Tx set). Tx wins when both are set.
type Bolt struct {
	DB *bbolt.DB
	Tx *bbolt.Tx
}

// View runs fn read-only.
func (b Bolt) View(fn func(*bbolt.Tx) error) error {
	if b.Tx != nil {
		return fn(b.Tx)
	}
	return b.DB.View(fn)
}

// Update runs fn read-write. Inside an enclosing transaction the changes
// commit or roll back with it.
func (b Bolt) Update(fn func(*bbolt.Tx) error) error {
	if b.Tx != nil {
		return fn(b.Tx)
	}
	return b.DB.Update(fn)
}
