package vec

// Vec2 представляет горизонтальную колонку мира (X, Z)
type Vec2 struct {
	X, Z int
}

// At возвращает клетку колонки на высоте y
func (v Vec2) At(y int) Vec3 {
	return Vec3{X: v.X, Y: y, Z: v.Z}
}
