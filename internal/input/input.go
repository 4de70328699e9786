// Package input turns host button snapshots into the board's active-low
// input ports and tracks per-control press/release edges.
package input

// Buttons is one snapshot of the cabinet controls.
type Buttons struct {
	Up, Down, Left, Right bool
	Start1, Start2        bool
	Coin1, Coin2          bool
	Credit                bool // service credit
	RackTest              bool // skips the current level
	Service               bool // board test switch
}

// Button names a single control for edge queries.
type Button uint8

const (
	Up Button = iota
	Down
	Left
	Right
	Start1
	Start2
	Coin1
	Coin2
	Credit
	RackTest
	Service
)

func (b Buttons) get(btn Button) bool {
	switch btn {
	case Up:
		return b.Up
	case Down:
		return b.Down
	case Left:
		return b.Left
	case Right:
		return b.Right
	case Start1:
		return b.Start1
	case Start2:
		return b.Start2
	case Coin1:
		return b.Coin1
	case Coin2:
		return b.Coin2
	case Credit:
		return b.Credit
	case RackTest:
		return b.RackTest
	case Service:
		return b.Service
	}
	return false
}

// State keeps the previous and current snapshot.
type State struct {
	prev, cur Buttons
	upright   bool
}

func New() *State { return &State{upright: true} }

// SetCocktail selects the cocktail cabinet bit in IN1.
func (s *State) SetCocktail(on bool) { s.upright = !on }

// Update shifts the current snapshot to previous and stores b.
func (s *State) Update(b Buttons) {
	s.prev = s.cur
	s.cur = b
}

// Held reports whether btn is down now.
func (s *State) Held(btn Button) bool { return s.cur.get(btn) }

// Pressed reports whether btn went down with the last Update.
func (s *State) Pressed(btn Button) bool { return s.cur.get(btn) && !s.prev.get(btn) }

// Released reports whether btn went up with the last Update.
func (s *State) Released(btn Button) bool { return !s.cur.get(btn) && s.prev.get(btn) }

// Ports encodes the current snapshot as the active-low IN0 and IN1 bytes.
// Both players share the joystick; the board multiplexes them by turn.
func (s *State) Ports() (in0, in1 byte) {
	b := s.cur
	in0 = low(b.Up, 0) | low(b.Left, 1) | low(b.Right, 2) | low(b.Down, 3) |
		low(b.RackTest, 4) | low(b.Coin1, 5) | low(b.Coin2, 6) | low(b.Credit, 7)
	in1 = low(b.Up, 0) | low(b.Left, 1) | low(b.Right, 2) | low(b.Down, 3) |
		low(b.Service, 4) | low(b.Start1, 5) | low(b.Start2, 6)
	if s.upright {
		in1 |= 1 << 7
	}
	return in0, in1
}

// low returns bit n set when the control is released.
func low(pressed bool, n uint) byte {
	if pressed {
		return 0
	}
	return 1 << n
}
