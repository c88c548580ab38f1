package stats

import (
	"log"
	"sync"
	"time"
)

// streak walks at most a year back.
const maxStreakDays = 365

type streakCache struct {
	streak int
	date   string
}

// StreakCalculator derives the consecutive-day learning streak from the
// activity log. A computed value is cached for the calendar day it was
// computed on; any read on a later day recomputes.
type StreakCalculator struct {
	Store Store
	Now   func() time.Time

	mu    sync.Mutex
	cache map[string]streakCache
}

func NewStreakCalculator(store Store) *StreakCalculator {
	return &StreakCalculator{
		Store: store,
		Now:   time.Now,
		cache: map[string]streakCache{},
	}
}

// Current returns the user's streak, from cache when it was already computed
// today.
func (c *StreakCalculator) Current(userID string) int {
	today := c.Now().Format(DateLayout)
	c.mu.Lock()
	if entry, ok := c.cache[userID]; ok && entry.date == today {
		c.mu.Unlock()
		return entry.streak
	}
	c.mu.Unlock()
	return c.Recalculate(userID)
}

// Recalculate walks backward from today, counting days with at least one
// completed lesson. Today is allowed to be empty: the first backward step
// falls through to yesterday before the streak is considered broken, so a
// streak never resets to zero just because the user has not logged activity
// yet today. The grace applies to that first step only.
func (c *StreakCalculator) Recalculate(userID string) int {
	events, err := c.Store.ByUser(userID)
	if err != nil {
		log.Printf("streak read: %v", err)
		return 0
	}
	days := map[string]bool{}
	for _, ev := range events {
		if ev.Type == EventLessonCompleted {
			days[ev.Date] = true
		}
	}

	now := c.Now()
	streak := 0
	cursor := now
	for i := 0; i < maxStreakDays; i++ {
		if days[cursor.Format(DateLayout)] {
			streak++
			cursor = cursor.AddDate(0, 0, -1)
			continue
		}
		if i == 0 {
			cursor = cursor.AddDate(0, 0, -1)
			if days[cursor.Format(DateLayout)] {
				streak++
				cursor = cursor.AddDate(0, 0, -1)
				continue
			}
		}
		break
	}

	c.mu.Lock()
	c.cache[userID] = streakCache{streak: streak, date: now.Format(DateLayout)}
	c.mu.Unlock()
	return streak
}

// Invalidate drops the cached value, forcing the next read to recompute.
func (c *StreakCalculator) Invalidate(userID string) {
	c.mu.Lock()
	delete(c.cache, userID)
	c.mu.Unlock()
}
