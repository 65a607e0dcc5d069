package utils

import "log"

// BestEffort runs a cleanup or lookup step whose failure must not fail
// the primary operation (old image deletion, optional aggregates). The
// error is logged and reported through the return value only.
func BestEffort(op string, fn func() error) bool {
	if err := fn(); err != nil {
		log.Printf("non-fatal: %s: %v", op, err)
		return false
	}
	return true
}
