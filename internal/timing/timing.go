// Package timing runs the CPU in fixed real-time slices and raises the
// periodic vblank interrupt at each slice boundary.
package timing

// Pac-Man clocks the Z80 at 3.072 MHz and refreshes at 60 Hz.
const (
	ClockHz        = 3_072_000
	RefreshHz      = 60
	CyclesPerFrame = ClockHz / RefreshHz
)

// Stepper is the CPU as the controller drives it.
type Stepper interface {
	Step() (int, error)
	Interrupt()
	InterruptPending() bool
}

// State of the interrupt handshake.
type State uint8

const (
	Running State = iota
	InterruptPending
)

func (s State) String() string {
	if s == InterruptPending {
		return "interrupt-pending"
	}
	return "running"
}

// Controller runs a Stepper slice by slice. The last instruction of a slice
// may run past the budget; that overshoot is charged to the next slice.
type Controller struct {
	cpu    Stepper
	gate   func() bool
	debt   int
	slices uint64
}

func New(cpu Stepper) *Controller { return &Controller{cpu: cpu} }

// SetGate installs a check consulted before each interrupt assertion. A nil
// gate asserts every slice.
func (t *Controller) SetGate(gate func() bool) { t.gate = gate }

// RunSlice steps the CPU until the budget, less last slice's overshoot, is
// used up, then asserts the interrupt once. It returns the cycles executed.
// On a CPU error the slice stops early and no interrupt is asserted.
func (t *Controller) RunSlice(budget int) (int, error) {
	target := budget - t.debt
	used := 0
	for used < target {
		n, err := t.cpu.Step()
		used += n
		if err != nil {
			return used, err
		}
	}
	t.debt = used - target
	t.slices++
	if t.gate == nil || t.gate() {
		t.cpu.Interrupt()
	}
	return used, nil
}

// State reports whether an asserted interrupt is still waiting.
func (t *Controller) State() State {
	if t.cpu.InterruptPending() {
		return InterruptPending
	}
	return Running
}

// Overshoot is the number of cycles the previous slice ran past its target.
func (t *Controller) Overshoot() int { return t.debt }

// Slices is the number of completed slices since reset.
func (t *Controller) Slices() uint64 { return t.slices }

func (t *Controller) Reset() {
	t.debt = 0
	t.slices = 0
}

// Restore sets the carried overshoot and slice count, for save states.
func (t *Controller) Restore(overshoot int, slices uint64) {
	t.debt = overshoot
	t.slices = slices
}
