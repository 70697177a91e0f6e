package combat

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/dungeonrpg/internal/model"
)

// StatPointsPerLevel is the stat points granted per level.
const StatPointsPerLevel = 4

// ExpToNext returns the exp required to leave level: 20 + level*10.
func ExpToNext(level int) int {
	return 20 + level*10
}

// GainExp adds amount to player's exp and levels up while the threshold is reached.
// Leftover exp is kept. Returns human-readable log lines.
func GainExp(player *model.Player, amount int) []string {
	lines := []string{fmt.Sprintf("EXP +%d", amount)}

	oldLevel := player.Level()
	player.SetExp(player.Exp() + amount)
	for player.Exp() >= ExpToNext(player.Level()) {
		player.SetExp(player.Exp() - ExpToNext(player.Level()))
		player.SetLevel(player.Level() + 1)
		player.SetStatPoints(player.StatPoints() + StatPointsPerLevel)
		lines = append(lines, fmt.Sprintf("Level up! Lv %d / stat points +%d", player.Level(), StatPointsPerLevel))
	}
	player.SetExpToNext(ExpToNext(player.Level()))

	if player.Level() > oldLevel {
		slog.Info("player leveled up",
			"player", player.ID(),
			"oldLevel", oldLevel,
			"newLevel", player.Level(),
			"exp", player.Exp())
	}
	return lines
}
