package game

import "time"

// Scheduler decides on each frame whether the movement and spawn ticks are due.
// The two timers are independent and share only the frame clock.
type Scheduler struct {
	move  time.Duration
	spawn time.Duration

	nextMove  time.Time
	nextSpawn time.Time
}

// NewScheduler creates a scheduler with the given periods. Call Reset before the first Due.
func NewScheduler(move, spawn time.Duration) *Scheduler {
	return &Scheduler{move: move, spawn: spawn}
}

// Reset starts both periods at now.
func (s *Scheduler) Reset(now time.Time) {
	s.nextMove = now.Add(s.move)
	s.nextSpawn = now.Add(s.spawn)
}

// Due reports which ticks fire on a frame at now. Each fires at most once per
// frame; a timer that fell more than a period behind restarts from now.
func (s *Scheduler) Due(now time.Time) (move, spawn bool) {
	move = advance(&s.nextMove, s.move, now)
	spawn = advance(&s.nextSpawn, s.spawn, now)
	return move, spawn
}

func advance(next *time.Time, period time.Duration, now time.Time) bool {
	if now.Before(*next) {
		return false
	}
	*next = next.Add(period)
	if !next.After(now) {
		*next = now.Add(period)
	}
	return true
}
