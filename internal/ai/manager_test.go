package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/dungeonrpg/internal/model"
	"github.com/udisondev/dungeonrpg/internal/random"
)

type fixedAI string

func (f fixedAI) ChooseSkill(*model.Enemy, BattleView, random.Source) string { return string(f) }

func TestRegistry_Builtins(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, 2, r.Len())
	assert.IsType(t, RandomSkillAI{}, r.For(model.AIBasic))
	assert.IsType(t, RandomSkillAI{}, r.For(model.AIBoss))
}

func TestRegistry_UnknownTagFallsBack(t *testing.T) {
	r := NewRegistry()
	r.Register(model.AIBasic, fixedAI("slam"))

	got := r.For("berserker").ChooseSkill(nil, nil, nil)

	assert.Equal(t, "slam", got)
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	r.Register("coward", fixedAI("flee"))

	assert.Equal(t, 3, r.Len())
	assert.Equal(t, "flee", r.For("coward").ChooseSkill(nil, nil, nil))
}
