// Package trigger implements the keyword-activated capability registry.
// Triggers are matched by case-insensitive substring against a query and
// dispatched strictly by priority, highest first.
package trigger

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	contractx "github.com/voxboard/voxboard/assistant/contract"
)

// Registry holds the ordered trigger collection. The slice is kept sorted
// descending by priority; among equal priorities, registration order is
// preserved. Matching runs concurrently with other matches; Add and Remove
// take the write lock.
type Registry struct {
	mu       sync.RWMutex
	triggers []contractx.Trigger
}

func NewRegistry(triggers ...contractx.Trigger) *Registry {
	r := &Registry{}
	for _, t := range triggers {
		r.Add(t)
	}
	return r
}

// Add registers a trigger and re-establishes the priority order.
func (r *Registry) Add(t contractx.Trigger) {
	if t == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers = append(r.triggers, t)
	sort.SliceStable(r.triggers, func(i, j int) bool {
		return r.triggers[i].Priority() > r.triggers[j].Priority()
	})
	log.Info().
		Str("trigger", t.Name()).
		Int("priority", t.Priority()).
		Msg("trigger registered")
}

// Remove drops the trigger with the given name. Unknown names are a no-op.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.triggers[:0]
	for _, t := range r.triggers {
		if t.Name() != name {
			kept = append(kept, t)
		}
	}
	r.triggers = kept
}

// Match returns every trigger whose keyword set intersects the query, in
// priority order. An empty query matches nothing.
func (r *Registry) Match(query string) []contractx.Trigger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []contractx.Trigger
	for _, t := range r.triggers {
		if t.Matches(query) {
			matched = append(matched, t)
		}
	}
	return matched
}

// Process selects the single highest-priority matching trigger and invokes
// its action. No trigger matching yields *contract.NoMatchError; an action
// failure yields *contract.ActionFailedError. There is no fallback to the
// next match after a failure.
func (r *Registry) Process(ctx context.Context, query string) (contractx.ProcessResult, error) {
	matched := r.Match(query)
	if len(matched) == 0 {
		return contractx.ProcessResult{}, &contractx.NoMatchError{Query: query}
	}

	selected := matched[0]
	log.Info().
		Str("trigger", selected.Name()).
		Str("query", query).
		Msg("dispatching trigger")

	resp, err := selected.Action(ctx, query)
	if err != nil {
		return contractx.ProcessResult{}, &contractx.ActionFailedError{
			Trigger: selected.Name(),
			Err:     err,
		}
	}

	return contractx.ProcessResult{
		Trigger:  selected.Name(),
		Response: resp,
	}, nil
}

// List returns the introspection view of all registered triggers in
// dispatch order.
func (r *Registry) List() []contractx.TriggerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]contractx.TriggerInfo, 0, len(r.triggers))
	for _, t := range r.triggers {
		info := contractx.TriggerInfo{
			Name:     t.Name(),
			Priority: t.Priority(),
			Keywords: t.Keywords(),
		}
		if d, ok := t.(interface{ ActivationCriteria() string }); ok {
			info.ActivationCriteria = d.ActivationCriteria()
		}
		infos = append(infos, info)
	}
	return infos
}

// ContainsAnyKeyword reports whether any keyword is a case-insensitive
// substring of the query. Shared by all trigger implementations.
func ContainsAnyKeyword(query string, keywords []string) bool {
	lowered := strings.ToLower(query)
	if lowered == "" {
		return false
	}
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
