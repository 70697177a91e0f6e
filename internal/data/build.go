package data

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/dungeonrpg/internal/model"
)

// content is an immutable validated catalog snapshot.
type content struct {
	version         map[string]string
	defaultPlayerID string
	players         map[string]*model.PlayerProfile
	skills          map[string]*model.SkillTemplate
	items           map[string]*model.ItemTemplate
	dropTables      map[string][]model.DropEntry
	monsters        map[string]*model.MonsterTemplate
	dungeonBosses   map[string]*model.MonsterTemplate
	specialBosses   map[string]*model.MonsterTemplate
	zones           map[string]*model.ZoneTemplate
	fingerprint     string
}

// build decodes and validates all files. The first violation aborts the build.
func build(files rawFiles) (*content, error) {
	var (
		playersF  rawPlayersFile
		skillsF   rawSkillsFile
		itemsF    rawItemsFile
		monstersF rawMonstersFile
		bossesF   rawBossesFile
		dungeonsF rawDungeonsFile
	)
	decodes := []struct {
		name string
		out  any
	}{
		{FilePlayers, &playersF},
		{FileSkills, &skillsF},
		{FileItems, &itemsF},
		{FileMonsters, &monstersF},
		{FileBosses, &bossesF},
		{FileDungeons, &dungeonsF},
	}
	for _, d := range decodes {
		if err := files.decode(d.name, d.out); err != nil {
			return nil, err
		}
	}

	c := &content{
		version: map[string]string{
			FilePlayers:  playersF.Version,
			FileSkills:   skillsF.Version,
			FileItems:    itemsF.Version,
			FileMonsters: monstersF.Version,
			FileBosses:   bossesF.Version,
			FileDungeons: dungeonsF.Version,
		},
		fingerprint: files.fingerprint(),
	}

	var err error
	if c.skills, err = buildSkills(skillsF.Skills); err != nil {
		return nil, err
	}
	if c.items, err = buildItems(itemsF.Items); err != nil {
		return nil, err
	}
	if c.dropTables, err = buildDropTables(itemsF.DropTables, c.items); err != nil {
		return nil, err
	}
	if c.players, err = buildPlayers(playersF.Players, c.skills); err != nil {
		return nil, err
	}
	if playersF.DefaultPlayerID != "" {
		if _, ok := c.players[playersF.DefaultPlayerID]; !ok {
			return nil, invalid(FilePlayers, "default_player_id", "player %q does not exist", playersF.DefaultPlayerID)
		}
	}
	c.defaultPlayerID = playersF.DefaultPlayerID

	if c.monsters, err = buildMonsters(FileMonsters, "monsters", monstersF.Monsters, c.skills, false); err != nil {
		return nil, err
	}
	if c.dungeonBosses, err = buildMonsters(FileBosses, "dungeon_bosses", bossesF.DungeonBosses, c.skills, false); err != nil {
		return nil, err
	}
	if c.specialBosses, err = buildMonsters(FileBosses, "special_bosses", bossesF.SpecialBosses, c.skills, true); err != nil {
		return nil, err
	}
	c.zones = buildZones(dungeonsF.Zones)

	c.warnDanglingRefs()
	return c, nil
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

func buildStats(file, path string, r *rawStats) (model.Stats, error) {
	if r == nil {
		return model.Stats{}, invalid(file, path, "missing required stats block")
	}
	fields := []struct {
		key model.StatKey
		val *float64
	}{
		{model.StatAttack, r.Attack},
		{model.StatMagic, r.Magic},
		{model.StatDefense, r.Defense},
		{model.StatMagicResist, r.MagicResist},
		{model.StatMaxHP, r.MaxHP},
	}
	var s model.Stats
	for _, f := range fields {
		if f.val == nil {
			return model.Stats{}, invalid(file, path+"."+string(f.key), "missing required numeric field")
		}
		s = s.With(f.key, int(*f.val))
	}
	return s, nil
}

// statDelta converts a loose {stat: value} mapping. Unknown keys are dropped.
func statDelta(file, path string, m map[string]int) model.Stats {
	var s model.Stats
	for _, name := range sortedKeys(m) {
		k, ok := model.ParseStatKey(name)
		if !ok {
			slog.Warn("unknown stat key ignored", "file", file, "path", path, "stat", name)
			continue
		}
		s = s.With(k, s.Get(k)+m[name])
	}
	return s
}

func buildSkills(raw map[string]*rawSkill) (map[string]*model.SkillTemplate, error) {
	out := make(map[string]*model.SkillTemplate, len(raw)+1)
	for _, id := range sortedKeys(raw) {
		if id == model.BasicAttackID {
			continue
		}
		r := raw[id]
		path := "skills." + id
		if r == nil {
			return nil, invalid(FileSkills, path, "empty skill definition")
		}
		if r.Name == nil {
			return nil, invalid(FileSkills, path+".name", "missing required field")
		}
		if r.BasePhysical == nil {
			return nil, invalid(FileSkills, path+".base_physical", "missing required numeric field")
		}
		if r.BaseMagic == nil {
			return nil, invalid(FileSkills, path+".base_magic", "missing required numeric field")
		}
		if r.Scale == nil {
			return nil, invalid(FileSkills, path+".scale", "missing required scale block")
		}
		if r.Scale.Attack == nil {
			return nil, invalid(FileSkills, path+".scale.attack", "missing required numeric field")
		}
		if r.Scale.Magic == nil {
			return nil, invalid(FileSkills, path+".scale.magic", "missing required numeric field")
		}

		dmgType := r.Type
		if dmgType == "" {
			dmgType = "physical"
		}
		t := &model.SkillTemplate{
			ID:           id,
			Name:         *r.Name,
			DamageType:   dmgType,
			BasePhysical: *r.BasePhysical,
			BaseMagic:    *r.BaseMagic,
			Scale:        model.SkillScale{Attack: *r.Scale.Attack, Magic: *r.Scale.Magic},
			Cost:         r.Cost,
			Cooldown:     r.Cooldown,
		}
		for i, e := range r.ApplyEffect {
			t.Effects = append(t.Effects, effectSpec(FileSkills, fmt.Sprintf("%s.apply_effect[%d]", path, i), e))
		}
		out[id] = t
	}
	// basic attack is built in and always wins over content
	out[model.BasicAttackID] = model.BasicAttack()
	return out, nil
}

func effectSpec(file, path string, r rawEffect) model.EffectSpec {
	chance := 1.0
	if r.Chance != nil {
		chance = *r.Chance
	}
	target := model.TargetSelf
	if r.Target != "" && r.Target != string(model.TargetSelf) {
		target = model.TargetEnemy
	}
	source := r.Source
	if source == "" {
		source = r.Note
	}
	return model.EffectSpec{
		Kind:     model.EffectKind(r.kind()),
		Target:   target,
		Chance:   chance,
		Duration: r.Duration,
		Power:    r.Power,
		Stats:    statDelta(file, path+".stats", r.Stats),
		Source:   source,
	}
}

func buildItems(raw map[string]*rawItem) (map[string]*model.ItemTemplate, error) {
	out := make(map[string]*model.ItemTemplate, len(raw))
	for _, id := range sortedKeys(raw) {
		r := raw[id]
		path := "items." + id
		if r == nil {
			return nil, invalid(FileItems, path, "empty item definition")
		}
		itype := model.ItemType(r.Type)
		if !itype.Valid() {
			return nil, invalid(FileItems, path+".type", "invalid item type %q", r.Type)
		}
		stats, err := buildStats(FileItems, path+".stats", r.Stats)
		if err != nil {
			return nil, err
		}

		name := r.Name
		if name == "" {
			name = id
		}
		rarity := r.Rarity
		if rarity == "" {
			rarity = "common"
		}
		t := &model.ItemTemplate{
			ID:     id,
			Name:   name,
			Type:   itype,
			Rarity: rarity,
			Desc:   r.Desc,
			Stats:  stats,
		}

		if itype == model.ItemTypeEquipment {
			slot := model.Slot(r.Slot)
			if !slot.Valid() {
				return nil, invalid(FileItems, path+".slot", "invalid equipment slot %q", r.Slot)
			}
			t.Slot = slot
		}
		if r.Special != nil {
			if t.Special, err = buildSpecial(path+".special", r.Special); err != nil {
				return nil, err
			}
		}
		if itype == model.ItemTypeConsumable {
			if t.UseEffect, err = buildUseEffect(path+".use_effect", r.UseEffect); err != nil {
				return nil, err
			}
		}
		out[id] = t
	}
	return out, nil
}

func buildSpecial(path string, r *rawSpecial) (*model.ItemSpecial, error) {
	sp := &model.ItemSpecial{Type: model.SpecialType(r.Type)}
	switch sp.Type {
	case model.SpecialOnHit:
		sp.Chance = r.Chance
		sp.Effect = model.EffectKind(r.Effect)
		sp.Duration = 1
		if r.Duration != nil {
			sp.Duration = *r.Duration
		}
		sp.Power = r.Power
	case model.SpecialStatMultiplier:
		k, ok := model.ParseStatKey(r.Stat)
		if !ok {
			return nil, invalid(FileItems, path+".stat", "unknown stat %q", r.Stat)
		}
		sp.Stat = k
		sp.Mult = r.Mult
	default:
		return nil, invalid(FileItems, path+".type", "unknown special type %q", r.Type)
	}
	return sp, nil
}

func buildUseEffect(path string, r *rawUseEffect) (*model.UseEffect, error) {
	if r == nil {
		return nil, invalid(FileItems, path, "consumable requires a use_effect mapping")
	}
	ue := &model.UseEffect{
		Type:     model.UseEffectType(r.Type),
		Power:    int(r.Power),
		Duration: r.Duration,
		Stats:    statDelta(FileItems, path+".stats", r.Stats),
	}
	switch ue.Type {
	case model.UseHeal, model.UseCleanse, model.UseBuffStats:
	default:
		return nil, invalid(FileItems, path+".type", "invalid use_effect type %q", r.Type)
	}
	if r.Target != string(model.TargetSelf) {
		return nil, invalid(FileItems, path+".target", "only target self is supported, got %q", r.Target)
	}
	if ue.Type == model.UseCleanse {
		remove, err := decodeRemove(r.Remove)
		if err != nil {
			return nil, invalid(FileItems, path+".remove", "%v", err)
		}
		ue.Remove = remove
	}
	return ue, nil
}

// decodeRemove accepts an absent/null node or a list of effect kinds.
func decodeRemove(n yaml.Node) ([]model.EffectKind, error) {
	if n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == "!!null") {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, errors.New("must be a list")
	}
	var kinds []string
	if err := n.Decode(&kinds); err != nil {
		return nil, err
	}
	out := make([]model.EffectKind, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, model.EffectKind(k))
	}
	return out, nil
}

func buildDropTables(raw map[string][]rawDropRow, items map[string]*model.ItemTemplate) (map[string][]model.DropEntry, error) {
	out := make(map[string][]model.DropEntry, len(raw))
	for _, name := range sortedKeys(raw) {
		rows := raw[name]
		entries := make([]model.DropEntry, 0, len(rows))
		for i, r := range rows {
			path := fmt.Sprintf("drop_tables.%s[%d]", name, i)
			if _, ok := items[r.Item]; !ok {
				return nil, invalid(FileItems, path+".item", "unknown item %q", r.Item)
			}
			if r.Chance < 0 || r.Chance > 1 {
				return nil, invalid(FileItems, path+".chance", "chance %v out of [0, 1]", r.Chance)
			}
			e := model.DropEntry{ItemID: r.Item, Chance: r.Chance, Min: 1, Max: 1}
			if r.Min != nil {
				e.Min = *r.Min
			}
			if r.Max != nil {
				e.Max = *r.Max
			}
			if e.Min < 0 || e.Max < 0 {
				return nil, invalid(FileItems, path, "negative quantity bounds")
			}
			entries = append(entries, e)
		}
		out[name] = entries
	}
	return out, nil
}

// sanitizeSkills strips unknown skill ids; an empty result becomes [basic].
func sanitizeSkills(label string, ids []string, skills map[string]*model.SkillTemplate) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := skills[id]; !ok {
			slog.Warn("unknown skill id stripped", "actor", label, "skill", id)
			continue
		}
		out = append(out, id)
	}
	if len(out) == 0 {
		slog.Warn("empty skill list, inserting basic attack", "actor", label)
		out = append(out, model.BasicAttackID)
	}
	return out
}

func buildPlayers(raw map[string]*rawPlayer, skills map[string]*model.SkillTemplate) (map[string]*model.PlayerProfile, error) {
	out := make(map[string]*model.PlayerProfile, len(raw))
	for _, id := range sortedKeys(raw) {
		r := raw[id]
		path := "players." + id
		if r == nil {
			return nil, invalid(FilePlayers, path, "empty player definition")
		}
		stats, err := buildStats(FilePlayers, path+".base_stats", r.BaseStats)
		if err != nil {
			return nil, err
		}
		name := r.Name
		if name == "" {
			name = id
		}
		out[id] = &model.PlayerProfile{
			ID:        id,
			Name:      name,
			BaseStats: stats,
			Skills:    sanitizeSkills("player "+id, r.Skills, skills),
		}
	}
	return out, nil
}

func buildMonsters(file, section string, raw map[string]*rawMonster, skills map[string]*model.SkillTemplate, special bool) (map[string]*model.MonsterTemplate, error) {
	out := make(map[string]*model.MonsterTemplate, len(raw))
	for _, id := range sortedKeys(raw) {
		r := raw[id]
		path := section + "." + id
		if r == nil {
			return nil, invalid(file, path, "empty definition")
		}
		stats, err := buildStats(file, path+".stats", r.Stats)
		if err != nil {
			return nil, err
		}
		name := r.Name
		if name == "" {
			name = id
		}
		ai := r.AI
		if ai == "" {
			ai = model.AIBasic
		}
		t := &model.MonsterTemplate{
			ID:        id,
			Name:      name,
			Stats:     stats,
			AI:        ai,
			Skills:    sanitizeSkills(section+" "+id, r.Skills, skills),
			DropTable: r.DropTable,
			IsSpecial: special,
		}
		for i, g := range r.Gimmicks {
			gm, err := buildGimmick(file, fmt.Sprintf("%s.gimmicks[%d]", path, i), g)
			if err != nil {
				return nil, err
			}
			t.Gimmicks = append(t.Gimmicks, gm)
		}
		out[id] = t
	}
	return out, nil
}

func buildGimmick(file, path string, r rawGimmick) (model.Gimmick, error) {
	g := model.Gimmick{
		Trigger: model.GimmickTrigger(r.Trigger),
		N:       1,
		Ratio:   r.Ratio,
		Once:    r.Once,
	}
	switch g.Trigger {
	case model.TriggerEveryNTurns:
		if r.N != nil {
			g.N = *r.N
		}
		if g.N <= 0 {
			return g, invalid(file, path+".n", "n must be positive, got %d", g.N)
		}
	case model.TriggerHPBelow:
	default:
		return g, invalid(file, path+".trigger", "unknown trigger %q", r.Trigger)
	}

	a := r.Action
	if a.Type != model.GimmickActionApplyEffect {
		return g, invalid(file, path+".action.type", "unsupported action %q", a.Type)
	}
	target := a.Target
	if target == "" {
		target = model.GimmickTargetPlayer
	}
	if target != model.GimmickTargetPlayer && target != model.GimmickTargetSelf {
		return g, invalid(file, path+".action.target", "target must be player or self, got %q", a.Target)
	}
	duration := 1
	if a.Duration != nil {
		duration = *a.Duration
	}
	g.Action = model.GimmickAction{
		Type:   a.Type,
		Target: target,
		Effect: model.EffectSpec{
			Kind:     model.EffectKind(a.Effect),
			Chance:   1,
			Duration: duration,
			Power:    a.Power,
			Stats:    statDelta(file, path+".action.stats", a.Stats),
			Source:   "gimmick",
		},
	}
	return g, nil
}

func buildZones(raw map[string]*rawZone) map[string]*model.ZoneTemplate {
	out := make(map[string]*model.ZoneTemplate, len(raw))
	for zid, rz := range raw {
		z := &model.ZoneTemplate{ID: zid, Stages: map[string]*model.StageTemplate{}}
		if rz != nil {
			for sid, rs := range rz.Stages {
				st := &model.StageTemplate{ID: sid}
				if rs != nil {
					st.MonsterPool = append([]string(nil), rs.MonsterPool...)
					st.BossID = rs.BossID
					st.Exp = rs.Exp
				}
				z.Stages[sid] = st
			}
		}
		out[zid] = z
	}
	return out
}

// warnDanglingRefs logs references that resolve through fallbacks at runtime.
func (c *content) warnDanglingRefs() {
	check := func(section string, m map[string]*model.MonsterTemplate) {
		for _, id := range sortedKeys(m) {
			if dt := m[id].DropTable; dt != "" {
				if _, ok := c.dropTables[dt]; !ok {
					slog.Warn("unknown drop table referenced", "section", section, "id", id, "drop_table", dt)
				}
			}
		}
	}
	check("monsters", c.monsters)
	check("dungeon_bosses", c.dungeonBosses)
	check("special_bosses", c.specialBosses)

	for _, zid := range sortedKeys(c.zones) {
		for _, sid := range sortedKeys(c.zones[zid].Stages) {
			st := c.zones[zid].Stages[sid]
			for _, mid := range st.MonsterPool {
				if _, ok := c.monsters[mid]; !ok {
					slog.Warn("unknown monster in stage pool", "zone", zid, "stage", sid, "monster", mid)
				}
			}
			if st.BossID != "" && c.boss(st.BossID) == nil {
				slog.Warn("unknown stage boss", "zone", zid, "stage", sid, "boss", st.BossID)
			}
		}
	}
}

func (c *content) boss(id string) *model.MonsterTemplate {
	if b, ok := c.dungeonBosses[id]; ok {
		return b
	}
	if b, ok := c.specialBosses[id]; ok {
		return b
	}
	return nil
}

// dungeonBossID resolves "zone<N>_boss" first, then any dungeon boss id containing the zone id.
func (c *content) dungeonBossID(zone string) (string, bool) {
	candidate := "zone" + zone + "_boss"
	if _, ok := c.dungeonBosses[candidate]; ok {
		return candidate, true
	}
	for _, id := range sortedKeys(c.dungeonBosses) {
		if strings.Contains(id, zone) {
			return id, true
		}
	}
	return "", false
}
