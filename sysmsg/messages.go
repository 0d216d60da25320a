package sysmsg

// Lifecycle is an event the supervisor broadcasts to every mounted actor.
// Initialize always precedes Start; the rest are advisory.
type Lifecycle uint8

const (
	Initialize Lifecycle = iota
	Start
	Sleep
	Hibernate
	Stop
)

// Lifecycles lists every event in delivery order.
var Lifecycles = [...]Lifecycle{Initialize, Start, Sleep, Hibernate, Stop}

func (l Lifecycle) String() string {
	switch l {
	case Initialize:
		return "initialize"
	case Start:
		return "start"
	case Sleep:
		return "sleep"
	case Hibernate:
		return "hibernate"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// Set is a bitmask of pending lifecycle events.
type Set uint8

func (s Set) Add(l Lifecycle) Set {
	return s | 1<<l
}

func (s Set) Has(l Lifecycle) bool {
	return s&(1<<l) != 0
}

// Next returns the earliest pending event and the set without it.
func (s Set) Next() (Lifecycle, Set, bool) {
	for _, l := range Lifecycles {
		if s.Has(l) {
			return l, s &^ (1 << l), true
		}
	}
	return 0, s, false
}

func (s Set) Empty() bool {
	return s == 0
}
