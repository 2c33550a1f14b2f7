package workflow

import (
	"context"

	"autotitle/internal/knowledge"
	"autotitle/internal/logging"
)

func (m *Manager) sources() []knowledge.Source {
	out := make([]knowledge.Source, 0, len(m.cfg.Knowledge.Sources))
	for _, src := range m.cfg.Knowledge.Sources {
		out = append(out, knowledge.Source{Name: src.Name, URL: src.URL, Format: src.Format})
	}
	return out
}

// StartPopulation launches background cache population when the cache is
// empty or refresh_on_start is set. It reports whether a population run is
// in flight after the call.
func (m *Manager) StartPopulation(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.populating {
		return true
	}
	if m.cache.Loaded() && !m.cfg.Knowledge.RefreshOnStart {
		return false
	}
	popCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	m.populating = true
	m.popCancel = cancel
	m.popWG.Add(1)
	go func() {
		defer m.popWG.Done()
		defer func() {
			m.mu.Lock()
			m.populating = false
			m.mu.Unlock()
		}()
		m.cache.Populate(popCtx, m.sourceClient, m.sources())
	}()
	return true
}

// Populate fetches every configured source in the foreground.
func (m *Manager) Populate(ctx context.Context) []knowledge.SourceResult {
	logging.WithContext(ctx, m.logger).Info("populating knowledge cache", logging.Int("sources", len(m.cfg.Knowledge.Sources)))
	return m.cache.Populate(ctx, m.sourceClient, m.sources())
}

// WaitForPopulation blocks until any background population finishes.
func (m *Manager) WaitForPopulation() {
	m.popWG.Wait()
}
