package combat

import (
	"context"
	"log/slog"

	"github.com/looplab/fsm"

	"github.com/udisondev/dungeonrpg/internal/game/skill"
	"github.com/udisondev/dungeonrpg/internal/model"
)

// Phases of one battle turn.
const (
	PhaseCreated      = "created"
	PhasePlayerActing = "player_acting"
	PhaseEnemyActing  = "enemy_acting"
	PhaseEndOfTurn    = "end_of_turn"
	PhaseFinished     = "finished"
)

// Turn machine events.
const (
	eventPlayerTurn = "player_turn"
	eventEnemyTurn  = "enemy_turn"
	eventEndTurn    = "end_turn"
	eventNextTurn   = "next_turn"
	eventFinish     = "finish"
)

// Winner tags the side that won a finished battle.
type Winner string

const (
	WinnerPlayer Winner = "player"
	WinnerEnemy  Winner = "enemy"
)

// BattleResult is the battle outcome.
type BattleResult struct {
	Winner Winner
	Exp    int // full expected reward on a win, 0 otherwise
	Drops  []Drop
	Log    []string
}

// BattleState is one encounter, mutated in place by Engine until it finishes.
type BattleState struct {
	Player *model.Player
	Enemy  *model.Enemy

	turn        int
	turnIndex   int
	log         model.BattleLog
	expectedExp int
	dropTableID string
	gimmickUsed map[int]bool

	machine *fsm.FSM
	env     *skill.Env
	result  *BattleResult
}

func newTurnMachine() *fsm.FSM {
	return fsm.NewFSM(
		PhaseCreated,
		fsm.Events{
			{Name: eventPlayerTurn, Src: []string{PhaseCreated}, Dst: PhasePlayerActing},
			{Name: eventEnemyTurn, Src: []string{PhasePlayerActing}, Dst: PhaseEnemyActing},
			{Name: eventEndTurn, Src: []string{PhaseEnemyActing}, Dst: PhaseEndOfTurn},
			{Name: eventNextTurn, Src: []string{PhaseEndOfTurn}, Dst: PhaseCreated},
			{Name: eventFinish, Src: []string{PhasePlayerActing, PhaseEnemyActing, PhaseEndOfTurn}, Dst: PhaseFinished},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				slog.Debug("battle phase changed", "event", e.Event, "from", e.Src, "to", e.Dst)
			},
		},
	)
}

// fire moves the turn machine. Transitions are driven only by Engine in a
// fixed order, so a rejected event is a programming error and is logged.
func (st *BattleState) fire(event string) {
	if err := st.machine.Event(context.Background(), event); err != nil {
		slog.Error("battle phase transition rejected",
			"event", event,
			"phase", st.machine.Current(),
			"error", err)
	}
}

// Phase returns the current turn phase.
func (st *BattleState) Phase() string {
	return st.machine.Current()
}

// Finished reports whether the battle reached its terminal phase.
func (st *BattleState) Finished() bool {
	return st.machine.Is(PhaseFinished)
}

// Result returns the terminal result, or nil while the battle goes on.
func (st *BattleState) Result() *BattleResult {
	return st.result
}

// Turn returns the 1-based turn counter.
func (st *BattleState) Turn() int {
	return st.turn
}

// TurnIndex returns the counter used by every_n_turns gimmicks.
func (st *BattleState) TurnIndex() int {
	return st.turnIndex
}

// Opponent returns the player; enemy AI policies see the battle through it.
func (st *BattleState) Opponent() model.Combatant {
	return st.Player
}

// ExpectedExp returns the exp granted on a player win.
func (st *BattleState) ExpectedExp() int {
	return st.expectedExp
}

// DropTableID returns the drop table rolled on a player win.
func (st *BattleState) DropTableID() string {
	return st.dropTableID
}

// GimmickUsed reports whether the once-gimmick at idx has already fired.
func (st *BattleState) GimmickUsed(idx int) bool {
	return st.gimmickUsed[idx]
}

// Log returns the battle log lines so far.
func (st *BattleState) Log() []string {
	return st.log.Lines()
}
