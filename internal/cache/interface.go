package cache

// Класс попадания в IndexCache
type HitClass int

const (
	HitHot HitClass = iota
	HitCold
	Miss
)

// String возвращает строковое представление класса попадания
func (h HitClass) String() string {
	switch h {
	case HitHot:
		return "hot"
	case HitCold:
		return "cold"
	case Miss:
		return "miss"
	default:
		return "unknown"
	}
}

// Recorder принимает классификацию обращений к кешу.
// Счетчики увеличивает вызывающий код: сам IndexCache не знает, совпал ли ключ.
//
// Использование:
//
//	stats := cache.NewStats()
//	if idx, ok := c.Hot(); ok && keyAt(idx) == key {
//		stats.Record(cache.HitHot)
//	}
type Recorder interface {
	Record(class HitClass)
}
