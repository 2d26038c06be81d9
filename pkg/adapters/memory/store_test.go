package memory_test

import (
	"testing"

	"github.com/aretw0/jsonview/pkg/adapters/memory"
	"github.com/aretw0/jsonview/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSessionStoreContract(t, store)
}
