package model

// Enemy is a monster or boss instance. Created fresh for each battle.
type Enemy struct {
	*Actor

	id        string
	ai        string
	gimmicks  []Gimmick
	dropTable string
	isBoss    bool
}

// NewEnemy creates an Enemy at full hp from a template.
func NewEnemy(t *MonsterTemplate, isBoss bool) *Enemy {
	ai := t.AI
	if ai == "" {
		ai = AIBasic
	}
	return &Enemy{
		Actor:     NewActor(t.Name, t.Stats, t.Stats.MaxHP, t.Skills),
		id:        t.ID,
		ai:        ai,
		gimmicks:  append([]Gimmick(nil), t.Gimmicks...),
		dropTable: t.DropTable,
		isBoss:    isBoss,
	}
}

// ID returns the template id.
func (e *Enemy) ID() string {
	return e.id
}

// AI returns the AI tag.
func (e *Enemy) AI() string {
	return e.ai
}

// Gimmicks returns the gimmick list in declaration order.
func (e *Enemy) Gimmicks() []Gimmick {
	return e.gimmicks
}

// DropTable returns the drop table id (may be empty).
func (e *Enemy) DropTable() string {
	return e.dropTable
}

// IsBoss reports whether the enemy was spawned as a boss.
func (e *Enemy) IsBoss() bool {
	return e.isBoss
}
