package cache

import (
	"fmt"
	"sync/atomic"

	"github.com/annel0/colony-core/internal/logging"
)

// Stats – счетчики попаданий IndexCache. Принадлежит вызывающему коду и передаётся
// владельцу кеша по ссылке. Счетчики атомарные: debug-API читает их из другой горутины.
type Stats struct {
	hot  atomic.Uint64
	cold atomic.Uint64
	miss atomic.Uint64
}

// Snapshot – неизменяемый срез счетчиков
type Snapshot struct {
	Hot  uint64 `json:"hot"`
	Cold uint64 `json:"cold"`
	Miss uint64 `json:"miss"`
}

// NewStats создаёт пустой набор счетчиков
func NewStats() *Stats {
	return &Stats{}
}

// Record увеличивает счетчик для класса попадания
func (s *Stats) Record(class HitClass) {
	switch class {
	case HitHot:
		s.hot.Add(1)
	case HitCold:
		s.cold.Add(1)
	default:
		s.miss.Add(1)
	}
}

// Snapshot возвращает текущие значения счетчиков
func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Hot:  s.hot.Load(),
		Cold: s.cold.Load(),
		Miss: s.miss.Load(),
	}
}

// Reset обнуляет счетчики
func (s *Stats) Reset() {
	s.hot.Store(0)
	s.cold.Store(0)
	s.miss.Store(0)
}

// Total возвращает общее число обращений
func (s Snapshot) Total() uint64 {
	return s.Hot + s.Cold + s.Miss
}

// HitRatio возвращает долю попаданий (hot+cold) от всех обращений
func (s Snapshot) HitRatio() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(s.Hot+s.Cold) / float64(total)
}

// Summary форматирует итог для вывода при завершении
func (s Snapshot) Summary() string {
	total := s.Total()
	if total == 0 {
		return "index cache: нет обращений"
	}
	pct := func(n uint64) float64 { return 100 * float64(n) / float64(total) }
	return fmt.Sprintf("index cache: %d обращений, hot %d (%.1f%%), cold %d (%.1f%%), miss %d (%.1f%%), попаданий %.1f%%",
		total, s.Hot, pct(s.Hot), s.Cold, pct(s.Cold), s.Miss, pct(s.Miss), 100*s.HitRatio())
}

// PrintCacheStats выводит сводку счетчиков в лог
func PrintCacheStats(s *Stats) {
	if s == nil {
		return
	}
	logging.Info("📊 %s", s.Snapshot().Summary())
}
