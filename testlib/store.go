package testlib

import (
	"github.com/clear-ness/view-counter/store"
)

// TestStore shares one store between test servers: closing a server leaves
// the store open for the next test.
type TestStore struct {
	store.Store
}

func (s TestStore) Close() {}
