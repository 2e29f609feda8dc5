package souqmap

import (
	"sync"

	"github.com/agentstation/souqmap/pkg/reconciler"
	"github.com/agentstation/souqmap/pkg/sources"
)

// Hook function types for run events
type (
	// ReconciledHook is called after every completed reconciliation
	ReconciledHook func(result *reconciler.Result)

	// SourceSkippedHook is called for each source that contributed no records
	SourceSkippedHook func(id sources.ID)

	// SavedHook is called with the path the final table was written to
	SavedHook func(path string)
)

// hooks manages event callbacks
type hooks struct {
	mu              sync.RWMutex
	onReconciled    []ReconciledHook
	onSourceSkipped []SourceSkippedHook
	onSaved         []SavedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnReconciled registers a callback for completed runs
func (h *hooks) OnReconciled(fn ReconciledHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onReconciled = append(h.onReconciled, fn)
}

// OnSourceSkipped registers a callback for skipped sources
func (h *hooks) OnSourceSkipped(fn SourceSkippedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSourceSkipped = append(h.onSourceSkipped, fn)
}

// OnSaved registers a callback for saved tables
func (h *hooks) OnSaved(fn SavedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSaved = append(h.onSaved, fn)
}

// triggerReconciled fires the skip hooks for each skipped source, then the
// reconciled hooks.
func (h *hooks) triggerReconciled(result *reconciler.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, id := range result.Metadata.Skipped {
		for _, hook := range h.onSourceSkipped {
			hook(id)
		}
	}
	for _, hook := range h.onReconciled {
		hook(result)
	}
}

func (h *hooks) triggerSaved(path string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, hook := range h.onSaved {
		hook(path)
	}
}
