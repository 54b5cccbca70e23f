package figura

import (
	"testing"
)

func TestMemoryStorage(t *testing.T) {
	runStorageConformance(t, func(t *testing.T) TemplateStorage {
		s := NewMemoryStorage()
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
