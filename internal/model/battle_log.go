package model

import "fmt"

// BattleLog is the turn-by-turn text log of one encounter.
type BattleLog struct {
	lines []string
}

// Add appends a line.
func (l *BattleLog) Add(line string) {
	l.lines = append(l.lines, line)
}

// Addf appends a formatted line.
func (l *BattleLog) Addf(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// Lines returns a copy of all lines.
func (l *BattleLog) Lines() []string {
	return append([]string(nil), l.lines...)
}

// Len returns the number of lines.
func (l *BattleLog) Len() int {
	return len(l.lines)
}

// Last returns the most recent line, or "".
func (l *BattleLog) Last() string {
	if len(l.lines) == 0 {
		return ""
	}
	return l.lines[len(l.lines)-1]
}
