package model

// AI tags recognised by the engine. Any other tag behaves like AIBasic.
const (
	AIBasic = "basic"
	AIBoss  = "boss"
)

// MonsterTemplate is a monster or boss template from monsters.yaml / bosses.yaml.
type MonsterTemplate struct {
	ID        string
	Name      string
	Stats     Stats
	AI        string
	Skills    []string
	Gimmicks  []Gimmick
	DropTable string
	IsSpecial bool // special (non-dungeon) boss
}

// GimmickTrigger decides when a boss gimmick fires.
type GimmickTrigger string

const (
	TriggerEveryNTurns GimmickTrigger = "every_n_turns"
	TriggerHPBelow     GimmickTrigger = "hp_below"
)

// GimmickActionApplyEffect is the only gimmick action type.
const GimmickActionApplyEffect = "apply_effect"

// Gimmick is a scripted boss action, checked before skill selection.
type Gimmick struct {
	Trigger GimmickTrigger
	N       int     // every_n_turns
	Ratio   float64 // hp_below
	Once    bool
	Action  GimmickAction
}

// GimmickAction applies Effect to the player ("player") or the boss itself ("self").
type GimmickAction struct {
	Type   string
	Target string
	Effect EffectSpec
}

// Gimmick action targets.
const (
	GimmickTargetPlayer = "player"
	GimmickTargetSelf   = "self"
)
