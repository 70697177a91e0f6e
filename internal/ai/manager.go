package ai

import (
	"log/slog"
	"sync"

	"github.com/udisondev/dungeonrpg/internal/model"
)

// Registry maps AI tags from content ("basic", "boss", ...) to policies.
type Registry struct {
	mu       sync.RWMutex
	policies map[string]EnemyAI
}

// NewRegistry creates a registry with the built-in policies registered.
func NewRegistry() *Registry {
	r := &Registry{policies: make(map[string]EnemyAI)}
	r.Register(model.AIBasic, RandomSkillAI{})
	r.Register(model.AIBoss, RandomSkillAI{})
	return r
}

// Register binds a policy to a tag, replacing any previous one.
func (r *Registry) Register(tag string, policy EnemyAI) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.policies[tag] = policy

	slog.Debug("enemy AI registered", "tag", tag)
}

// For returns the policy for tag. Unknown tags fall back to the basic policy.
func (r *Registry) For(tag string) EnemyAI {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.policies[tag]; ok {
		return p
	}
	slog.Warn("unknown AI tag, using basic", "tag", tag)
	if p, ok := r.policies[model.AIBasic]; ok {
		return p
	}
	return RandomSkillAI{}
}

// Len returns the number of registered policies.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.policies)
}
