package problem

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrProblemExists   = errors.New("problem already registered")
	ErrProblemNotFound = errors.New("problem not found")
)

// Spec describes how a named problem family is instantiated. Dim and Seed
// come from the experiment request; the factory owns every other knob.
type Spec struct {
	Dim  int
	Seed int64
}

type Factory func(spec Spec) (Problem, error)

var registry = struct {
	mu sync.RWMutex
	m  map[string]Factory
}{
	m: make(map[string]Factory),
}

// Register adds a problem factory under a unique name.
func Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("problem name is required")
	}
	if factory == nil {
		return errors.New("problem factory is required")
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if _, exists := registry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrProblemExists, name)
	}
	registry.m[name] = factory
	return nil
}

// MustRegister registers a factory and panics on conflict. Intended for
// package init of built-in problem families.
func MustRegister(name string, factory Factory) {
	if err := Register(name, factory); err != nil {
		panic(err)
	}
}

// Resolve instantiates a registered problem family.
func Resolve(name string, spec Spec) (Problem, error) {
	registry.mu.RLock()
	factory, ok := registry.m[name]
	registry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProblemNotFound, name)
	}
	prob, err := factory(spec)
	if err != nil {
		return nil, fmt.Errorf("instantiate problem %s: %w", name, err)
	}
	if prob.Dim() <= 0 {
		return nil, fmt.Errorf("problem %s reports non-positive dimension %d", name, prob.Dim())
	}
	return prob, nil
}

// List returns registered problem names in sorted order.
func List() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	names := make([]string, 0, len(registry.m))
	for name := range registry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resetRegistryForTests() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.m = make(map[string]Factory)
}
