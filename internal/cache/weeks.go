package cache

import (
	"time"

	"comida/internal/core"
)

// dayKeyLayout keys week tables by local calendar day; the table only
// changes when the date does.
const dayKeyLayout = "2006-01-02"

// WeekTables memoizes core.ComputeWeekTable per calendar day.
type WeekTables struct {
	lru *LRUCache[core.WeekTable]
}

func NewWeekTables(ttl time.Duration) *WeekTables {
	return &WeekTables{lru: NewLRUCache[core.WeekTable](8, ttl)}
}

// Table returns the week table for the day of now, computing it on a miss.
func (w *WeekTables) Table(now time.Time) core.WeekTable {
	key := now.Format(dayKeyLayout)
	if table, ok := w.lru.Get(key); ok {
		return table
	}
	table := core.ComputeWeekTable(now)
	w.lru.Set(key, table)
	return table
}

func (w *WeekTables) CleanExpired() int {
	return w.lru.CleanExpired()
}

func (w *WeekTables) Size() int {
	return w.lru.Size()
}
