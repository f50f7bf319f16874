package quests

import "time"

// test hooks for deterministic generation

func (g *Generator) SetRandIntn(f func(n int) int) {
	g.randIntn = f
}

func (g *Generator) SetNow(f func() time.Time) {
	g.now = f
}

func (t *Tracker) SetNow(f func() time.Time) {
	t.now = f
}
