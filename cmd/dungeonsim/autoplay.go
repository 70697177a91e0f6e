package main

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/udisondev/dungeonrpg/internal/game/combat"
	"github.com/udisondev/dungeonrpg/internal/game/session"
	"github.com/udisondev/dungeonrpg/internal/model"
)

const (
	maxTurns = 500
	// below this share of max hp the autoplayer drinks a heal
	healThreshold = 0.35
)

// autoplay drives the current battle to the end: heal when low, cleanse
// bleeding, otherwise cycle through the character's skills.
func autoplay(ctx context.Context, sess *session.Session, items model.ItemCatalog) (*combat.BattleResult, error) {
	for range maxTurns {
		st := sess.Battle()
		if st == nil {
			return nil, session.ErrNoBattle
		}

		if id := pickConsumable(st.Player, items); id != "" {
			res, err := sess.UseBattleItem(ctx, id)
			if err == nil {
				if res != nil {
					return res, nil
				}
				continue
			}
			// illegal item keeps the turn: fall through to a skill
		}

		res, err := sess.UseSkill(ctx, pickSkill(st))
		if err != nil {
			return nil, err
		}
		if res != nil {
			return res, nil
		}
	}
	return nil, fmt.Errorf("battle did not finish in %d turns", maxTurns)
}

func pickSkill(st *combat.BattleState) string {
	skills := st.Player.Skills()
	if len(skills) == 0 {
		return model.BasicAttackID
	}
	return skills[(st.Turn()-1)%len(skills)]
}

func pickConsumable(p *model.Player, items model.ItemCatalog) string {
	maxHP := p.TotalStats(items).MaxHP
	low := maxHP > 0 && float64(p.HP()) < float64(maxHP)*healThreshold
	bleeding := p.HasEffect(model.EffectBleed)
	if !low && !bleeding {
		return ""
	}

	inv := p.Inventory()
	for _, id := range slices.Sorted(maps.Keys(inv)) {
		if inv.Count(id) <= 0 {
			continue
		}
		item, ok := items.LookupItem(id)
		if !ok || !item.IsConsumable() || item.UseEffect == nil {
			continue
		}
		switch {
		case low && item.UseEffect.Type == model.UseHeal:
			return id
		case bleeding && item.UseEffect.Type == model.UseCleanse && slices.Contains(item.UseEffect.Remove, model.EffectBleed):
			return id
		}
	}
	return ""
}
