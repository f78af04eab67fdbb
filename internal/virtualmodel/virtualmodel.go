// Package virtualmodel serves a fake OpenAI-compatible provider that
// streams canned content over SSE. It backs the `streambox mock` command
// and the client integration tests.
package virtualmodel

import (
	"fmt"
	"sync"
	"time"
)

// VirtualModel is one canned model served by the registry.
type VirtualModel struct {
	// ID is the model name clients request
	ID string

	// Content is the full response text, streamed in ChunkSize pieces
	Content string

	// Thinking is optional reasoning content streamed before the text
	Thinking string

	// ChunkSize is the number of bytes per streamed chunk; zero means 8
	ChunkSize int

	// Delay is the pause between chunks
	Delay time.Duration
}

// Chunks splits the content into stream-sized pieces on rune boundaries.
func (vm *VirtualModel) Chunks() []string {
	size := vm.ChunkSize
	if size <= 0 {
		size = 8
	}
	var chunks []string
	runes := []rune(vm.Content)
	for i := 0; i < len(runes); i += size {
		end := i + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// Registry manages virtual models.
type Registry struct {
	models map[string]*VirtualModel
	mu     sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{models: make(map[string]*VirtualModel)}
}

// Register adds a virtual model.
func (r *Registry) Register(vm *VirtualModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.models[vm.ID]; exists {
		return fmt.Errorf("model already registered: %s", vm.ID)
	}
	r.models[vm.ID] = vm
	return nil
}

// Get retrieves a virtual model by ID.
func (r *Registry) Get(id string) *VirtualModel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.models[id]
}

// IDs returns the registered model names.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.models))
	for id := range r.models {
		ids = append(ids, id)
	}
	return ids
}
