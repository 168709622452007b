package vec

import "fmt"

// Vec3 представляет трехмерный вектор с целочисленными координатами.
// Оси изометрические: X – вправо к камере, Y – вверх, Z – влево к камере.
type Vec3 struct {
	X int
	Y int
	Z int
}

// New3 создает Vec3 из трех координат
func New3(x, y, z int) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// ToVec2 возвращает горизонтальную проекцию (X, Z), отбрасывая высоту
func (v Vec3) ToVec2() Vec2 {
	return Vec2{X: v.X, Z: v.Z}
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub вычитает вектор
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Mul покомпонентно умножает векторы
func (v Vec3) Mul(other Vec3) Vec3 {
	return Vec3{
		X: v.X * other.X,
		Y: v.Y * other.Y,
		Z: v.Z * other.Z,
	}
}

// Offset возвращает вектор, сдвинутый на (dx, dy, dz)
func (v Vec3) Offset(dx, dy, dz int) Vec3 {
	return Vec3{X: v.X + dx, Y: v.Y + dy, Z: v.Z + dz}
}

// FloorDiv покомпонентно делит вектор с округлением к минус бесконечности
func (v Vec3) FloorDiv(d Vec3) Vec3 {
	return Vec3{
		X: FloorDiv(v.X, d.X),
		Y: FloorDiv(v.Y, d.Y),
		Z: FloorDiv(v.Z, d.Z),
	}
}

// LessEq возвращает true, если каждая компонента v не больше соответствующей компоненты other
func (v Vec3) LessEq(other Vec3) bool {
	return v.X <= other.X && v.Y <= other.Y && v.Z <= other.Z
}

// String нужен для логов и сообщений паники
func (v Vec3) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}

// FloorDiv делит a на b с округлением к минус бесконечности.
// Обычное деление Go округляет к нулю: -1/5 == 0, а нам нужен чанк -1.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod возвращает остаток, согласованный с FloorDiv (всегда в [0, b) при b > 0)
func FloorMod(a, b int) int {
	return a - FloorDiv(a, b)*b
}
