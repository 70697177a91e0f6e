package skill

import "github.com/udisondev/dungeonrpg/internal/model"

// effectRegistry maps effect kind → implementation.
var effectRegistry = map[model.EffectKind]Effect{}

// RegisterEffect registers an effect implementation by its kind.
func RegisterEffect(e Effect) {
	effectRegistry[e.Kind()] = e
}

// LookupEffect returns the implementation for kind.
func LookupEffect(kind model.EffectKind) (Effect, bool) {
	e, ok := effectRegistry[kind]
	return e, ok
}

func init() {
	RegisterEffect(HealEffect{})
	RegisterEffect(StatsEffect{kind: model.EffectBuffStats})
	RegisterEffect(StatsEffect{kind: model.EffectDebuffStats})
	RegisterEffect(BleedEffect{})
	RegisterEffect(StunEffect{})
}
