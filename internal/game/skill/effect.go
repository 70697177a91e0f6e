package skill

import (
	"fmt"

	"github.com/udisondev/dungeonrpg/internal/model"
	"github.com/udisondev/dungeonrpg/internal/random"
)

// Effect is the behaviour of one effect kind.
// Instant effects do their work in OnApply and are never attached to the target.
// Timed effects are attached first, then OnApply runs; OnTick runs once per
// end of turn before the duration decrement; OnExit runs when the instance expires.
type Effect interface {
	Kind() model.EffectKind
	IsInstant() bool
	OnApply(env *Env, target model.Combatant, inst *model.EffectInstance)
	OnTick(env *Env, target model.Combatant, inst *model.EffectInstance)
	OnExit(env *Env, target model.Combatant, inst *model.EffectInstance)
}

// Env carries what effect resolution needs from the battle.
type Env struct {
	Log   *model.BattleLog
	Items model.ItemCatalog
	Rand  random.Source
}

func (env *Env) logf(format string, args ...any) {
	if env == nil || env.Log == nil {
		return
	}
	env.Log.Addf(format, args...)
}

func (env *Env) maxHP(target model.Combatant) int {
	var items model.ItemCatalog
	if env != nil {
		items = env.Items
	}
	return target.TotalStats(items).MaxHP
}

// formatDelta renders a stat delta as "attack +10/defense -3".
func formatDelta(s model.Stats) string {
	out := ""
	for _, k := range model.AllStatKeys {
		v := s.Get(k)
		if v == 0 {
			continue
		}
		if out != "" {
			out += "/"
		}
		out += fmt.Sprintf("%s %+d", k, v)
	}
	if out == "" {
		return "no change"
	}
	return out
}
