package tile

// capability – набор флагов, вычисляемых один раз при инициализации пакета
type capability uint16

const (
	capLiquid capability = 1 << iota
	capWalkable
	capFloodSide
	capFloodAbove
	capFloodBelow
	capCovering
	capNetworkable
	capAges
)

var (
	walls    = []Type{WallRock, WallDirt}
	floors   = []Type{FloorRock, FloorDirt}
	machines = []Type{MachineAssembler, MachineAirCleaner, MachineDrill, MachineSolarPanel}
	trees    = []Type{TreeHealthy, TreeSick, TreeDying, TreeDead}
)

var capabilities [256]capability

func init() {
	set := func(c capability, types ...Type) {
		for _, t := range types {
			capabilities[t] |= c
		}
	}
	except := func(c capability, groups ...[]Type) {
		excluded := make(map[Type]bool)
		for _, g := range groups {
			for _, t := range g {
				excluded[t] = true
			}
		}
		for _, t := range All() {
			if !excluded[t] {
				capabilities[t] |= c
			}
		}
	}

	set(capLiquid, Air, WaterShallow, WaterDeep)
	set(capWalkable, FloorRock, FloorDirt, Stairs, Wire, WaterShallow)

	solid := []Type{Ship, Storage}
	except(capFloodSide, walls, machines, solid, trees)
	except(capFloodAbove, walls, solid)
	except(capFloodBelow, walls, floors, []Type{Stairs}, machines, solid)

	set(capCovering, walls...)
	set(capCovering, TreeHealthy, TreeSick, TreeDying)
	set(capCovering, machines...)
	set(capCovering, Ship, Storage)

	set(capNetworkable, Wire, Storage, Ship)
	set(capNetworkable, machines...)

	set(capAges, TreeHealthy, TreeSick, TreeDying)
}

func (t Type) has(c capability) bool {
	return capabilities[t]&c != 0
}

// IsLiquid – жидкость или газ, участвующие в симуляции давления
func IsLiquid(t Type) bool { return t.has(capLiquid) }

// IsWalkableHorizontal – можно ли зайти на тайл с соседней клетки того же уровня
func IsWalkableHorizontal(to Type) bool { return to.has(capWalkable) }

// IsWalkableVertical – переход между уровнями возможен только по лестнице в обеих клетках
func IsWalkableVertical(from, to Type) bool { return from == Stairs && to == Stairs }

// IsFloodableFromSide – может ли жидкость затечь в тайл сбоку
func IsFloodableFromSide(t Type) bool { return t.has(capFloodSide) }

// IsFloodableFromAbove – может ли жидкость затечь в тайл сверху
func IsFloodableFromAbove(t Type) bool { return t.has(capFloodAbove) }

// IsFloodableFromBelow – может ли жидкость подняться в тайл снизу
func IsFloodableFromBelow(t Type) bool { return t.has(capFloodBelow) }

// IsCovering – тайл достаточно высокий, чтобы закрыть сущность позади себя
func IsCovering(t Type) bool { return t.has(capCovering) }

// IsNetworkable – тайл может входить в сеть проводов и машин
func IsNetworkable(t Type) bool { return t.has(capNetworkable) }

// Ages – тайл подвержен старению (деревья)
func Ages(t Type) bool { return t.has(capAges) }

// IsMachine – машина, которую можно разобрать обратно в пол
func IsMachine(t Type) bool {
	for _, m := range machines {
		if m == t {
			return true
		}
	}
	return false
}
