package gametime

import (
	"fmt"
	"sync"
)

const (
	// Time constants
	TicksPerDay  = 60000
	HoursPerDay  = 24
	TicksPerHour = TicksPerDay / HoursPerDay // 2500 ticks

	// Time periods
	DawnHour = 6
	DuskHour = 18
)

// DaysToTicks converts whole days to ticks.
func DaysToTicks(days int) int {
	return days * TicksPerDay
}

// TicksToDays converts ticks to fractional days.
func TicksToDays(ticks int) float64 {
	return float64(ticks) / TicksPerDay
}

// GameClock counts simulation ticks since the world was created.
type GameClock struct {
	ticks int64
	mu    sync.RWMutex
}

// NewGameClock creates a clock starting at tick 0.
func NewGameClock() *GameClock {
	return &GameClock{}
}

// NewGameClockAt creates a clock starting at the given tick.
func NewGameClockAt(ticks int64) *GameClock {
	return &GameClock{ticks: ticks}
}

// Ticks returns the current tick
func (gc *GameClock) Ticks() int64 {
	gc.mu.RLock()
	defer gc.mu.RUnlock()
	return gc.ticks
}

// Advance moves the clock forward by n ticks and returns the new tick.
func (gc *GameClock) Advance(n int) int64 {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	if n > 0 {
		gc.ticks += int64(n)
	}
	return gc.ticks
}

// GetDay returns the current day, starting at 1.
func (gc *GameClock) GetDay() int {
	return int(gc.Ticks()/TicksPerDay) + 1
}

// GetHour returns the current hour (0-23)
func (gc *GameClock) GetHour() int {
	return int(gc.Ticks()%TicksPerDay) / TicksPerHour
}

// IsDay returns true if current hour is during day period (6:00-17:59)
func (gc *GameClock) IsDay() bool {
	hour := gc.GetHour()
	return hour >= DawnHour && hour < DuskHour
}

// IsNight returns true if current hour is during night period (18:00-5:59)
func (gc *GameClock) IsNight() bool {
	return !gc.IsDay()
}

// GetTimeString returns a formatted time string (e.g., "Day 3, 14:00")
func (gc *GameClock) GetTimeString() string {
	return fmt.Sprintf("Day %d, %02d:00", gc.GetDay(), gc.GetHour())
}
