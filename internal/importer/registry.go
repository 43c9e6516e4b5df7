package importer

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[EntityKind]EntityDefinition)
	registryMu sync.RWMutex
)

// Register adds an entity definition to the registry.
// Panics if the kind is already registered.
func Register(def EntityDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Kind]; exists {
		panic(fmt.Sprintf("entity already registered: %s", def.Kind))
	}

	registry[def.Kind] = def
}

// Get returns an entity definition by kind.
func Get(kind EntityKind) (EntityDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[kind]
	return def, ok
}

// All returns all registered entity definitions, sorted by kind.
func All() []EntityDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]EntityDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Kind < result[j].Kind
	})

	return result
}

// Count returns the number of registered entities.
func Count() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered entities. Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[EntityKind]EntityDefinition)
}
