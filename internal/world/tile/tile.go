package tile

import "fmt"

// Type – тип тайла. Значение совпадает с индексом текстуры в атласе
// и не должно перенумеровываться.
type Type uint8

// Константы типов тайлов
const (
	// Ландшафт
	WallRock  Type = 0
	FloorRock Type = 1
	WallDirt  Type = 2
	FloorDirt Type = 3
	Stairs    Type = 4
	Air       Type = 5

	// Машины и сеть
	Wire              Type = 6
	MachineAssembler  Type = 7
	MachineAirCleaner Type = 8
	MachineDrill      Type = 9
	MachineSolarPanel Type = 10
	Ship              Type = 11
	Storage           Type = 12

	// Стадии здоровья дерева
	TreeHealthy Type = 13
	TreeSick    Type = 14
	TreeDying   Type = 15
	TreeDead    Type = 16

	// Вода
	WaterShallow Type = 17
	WaterDeep    Type = 18

	// Unset – клетка без типа. Появление в логике означает ошибку вызывающего кода.
	Unset Type = 255
)

var names = map[Type]string{
	WallRock:          "wall_rock",
	FloorRock:         "floor_rock",
	WallDirt:          "wall_dirt",
	FloorDirt:         "floor_dirt",
	Stairs:            "stairs",
	Air:               "air",
	Wire:              "wire",
	MachineAssembler:  "machine_assembler",
	MachineAirCleaner: "machine_air_cleaner",
	MachineDrill:      "machine_drill",
	MachineSolarPanel: "machine_solar_panel",
	Ship:              "ship",
	Storage:           "storage",
	TreeHealthy:       "tree_healthy",
	TreeSick:          "tree_sick",
	TreeDying:         "tree_dying",
	TreeDead:          "tree_dead",
	WaterShallow:      "water_shallow",
	WaterDeep:         "water_deep",
	Unset:             "unset",
}

var byName = func() map[string]Type {
	m := make(map[string]Type, len(names))
	for t, n := range names {
		m[n] = t
	}
	return m
}()

// All возвращает все определённые типы (кроме Unset) в порядке индексов текстур
func All() []Type {
	out := make([]Type, 0, len(names)-1)
	for t := WallRock; t <= WaterDeep; t++ {
		out = append(out, t)
	}
	return out
}

// TextureIndex возвращает индекс текстуры в атласе
func (t Type) TextureIndex() int {
	return int(t)
}

// IsValid проверяет, что значение входит в перечисление
func (t Type) IsValid() bool {
	_, ok := names[t]
	return ok
}

// String возвращает имя тайла
func (t Type) String() string {
	if n, ok := names[t]; ok {
		return n
	}
	return fmt.Sprintf("tile(%d)", uint8(t))
}

// Parse разбирает имя тайла (используется конфигурацией и debug-API)
func Parse(name string) (Type, error) {
	if t, ok := byName[name]; ok {
		return t, nil
	}
	return Unset, fmt.Errorf("неизвестный тип тайла %q", name)
}

// MarshalText/UnmarshalText позволяют использовать имена тайлов в JSON и YAML
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
