package practice

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxHistory is the number of attempts a Session keeps.
const DefaultMaxHistory = 100

// Attempt is an analysis recorded in a session.
type Attempt struct {
	ID         string
	RecordedAt time.Time
	Analysis
}

// Stats summarizes a session. Failed attempts count towards Total but not
// towards the score figures.
type Stats struct {
	Total     int
	Scored    int
	Failed    int
	Correct   int
	Average   float64
	Best      int
	Worst     int
	StartedAt time.Time
	Duration  time.Duration
}

// Session keeps recent attempts and running statistics. The statistics cover
// every recorded attempt, including ones dropped from the history. A Session
// is safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	maxHistory int
	now        func() time.Time
	attempts   []Attempt
	stats      Stats
	scoreSum   int
}

// NewSession creates a session that keeps up to maxHistory attempts. A
// non-positive maxHistory means DefaultMaxHistory.
func NewSession(maxHistory int) *Session {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	s := &Session{maxHistory: maxHistory, now: time.Now}
	s.stats.StartedAt = s.now()
	return s
}

// Record adds an analysis and returns the stored attempt.
func (s *Session) Record(a Analysis) Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := Attempt{ID: uuid.NewString(), RecordedAt: s.now(), Analysis: a}

	s.attempts = append(s.attempts, at)
	if over := len(s.attempts) - s.maxHistory; over > 0 {
		s.attempts = slices.Delete(s.attempts, 0, over)
	}

	s.stats.Total++
	if a.Failed() {
		s.stats.Failed++
		return at
	}

	score := a.Score()
	if s.stats.Scored == 0 || score > s.stats.Best {
		s.stats.Best = score
	}
	if s.stats.Scored == 0 || score < s.stats.Worst {
		s.stats.Worst = score
	}
	s.stats.Scored++
	s.scoreSum += score
	s.stats.Average = float64(s.scoreSum) / float64(s.stats.Scored)
	if a.IsCorrect {
		s.stats.Correct++
	}
	return at
}

// Attempts returns the kept attempts, oldest first.
func (s *Session) Attempts() []Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.attempts)
}

// Recent returns up to n of the newest attempts, oldest first.
func (s *Session) Recent(n int) []Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 {
		return nil
	}
	start := max(0, len(s.attempts)-n)
	return slices.Clone(s.attempts[start:])
}

// Stats returns the running statistics.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	st.Duration = s.now().Sub(st.StartedAt)
	return st
}

// Reset clears history and statistics and restarts the session clock.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = nil
	s.scoreSum = 0
	s.stats = Stats{StartedAt: s.now()}
}
