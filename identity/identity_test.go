package identity_test

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-go/identity"
)

func Test_UUIDSupplier_ProducesDistinctValidUUIDs(t *testing.T) {
	// arrange
	supplier := identity.UUIDSupplier{}
	seen := make(map[identity.ID]struct{})

	// act
	for i := 0; i < 1000; i++ {
		id := supplier.NextID()

		// assert
		_, err := uuid.Parse(id.String())
		require.NoError(t, err)
		_, duplicate := seen[id]
		require.False(t, duplicate, "supplier must not repeat identifiers")
		seen[id] = struct{}{}
	}
}

func Test_SequenceSupplier_IsSequentialAndConcurrencySafe(t *testing.T) {
	// arrange
	supplier := identity.NewSequenceSupplier("book")
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[identity.ID]struct{})

	// act
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				id := supplier.NextID()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Len(t, seen, 800)
	assert.Equal(t, identity.ID("book-801"), supplier.NextID())
}

func Test_ID_IsZero(t *testing.T) {
	assert.True(t, identity.ID("").IsZero())
	assert.False(t, identity.ID("x").IsZero())
}
