// Package sound implements the three-voice Namco waveform sound generator.
package sound

import "sync"

// ChipHz is the rate at which the generator advances its accumulators.
const ChipHz = 96000

// Register offsets within the 32-nibble sound block.
const (
	regWave0  = 0x05
	regWave1  = 0x0A
	regWave2  = 0x0F
	regFreq0  = 0x10
	regVol0   = 0x15
	regFreq1  = 0x16
	regVol1   = 0x1A
	regFreq2  = 0x1B
	regVol2   = 0x1F
	accMask   = 0xFFFFF
	ringSize  = 16384 // stereo frames, power of two
	mixScale  = 64
	numVoices = 3
)

// WSG is the sound generator. It produces stereo int16 frames into a ring
// buffer at the host sample rate.
type WSG struct {
	waves [8][32]int8

	acc [numVoices]uint32

	sampleRate int
	phase      int // resampler position, in units of 1/ChipHz
	sum        int
	n          int

	mu           sync.Mutex // guards the ring
	sL, sR       []int16
	sHead, sTail int
}

// New decodes the waveform PROM (8 waves of 32 nibbles). A nil PROM selects
// square waves.
func New(waveROM []byte, sampleRate int) *WSG {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	w := &WSG{
		sampleRate: sampleRate,
		sL:         make([]int16, ringSize),
		sR:         make([]int16, ringSize),
	}
	for i := range w.waves {
		for j := range w.waves[i] {
			var v byte
			if len(waveROM) >= 256 {
				v = waveROM[i*32+j] & 0x0F
			} else if j < 16 {
				v = 0x0F
			}
			w.waves[i][j] = int8(v) - 8
		}
	}
	return w
}

type voice struct {
	freq uint32
	wave int
	vol  int
}

func voices(regs *[32]byte) [numVoices]voice {
	nib := func(off int, shift uint) uint32 { return uint32(regs[off]&0x0F) << shift }
	f0 := nib(regFreq0, 0) | nib(regFreq0+1, 4) | nib(regFreq0+2, 8) | nib(regFreq0+3, 12) | nib(regFreq0+4, 16)
	f1 := nib(regFreq1, 4) | nib(regFreq1+1, 8) | nib(regFreq1+2, 12) | nib(regFreq1+3, 16)
	f2 := nib(regFreq2, 4) | nib(regFreq2+1, 8) | nib(regFreq2+2, 12) | nib(regFreq2+3, 16)
	return [numVoices]voice{
		{f0, int(regs[regWave0] & 7), int(regs[regVol0] & 0x0F)},
		{f1, int(regs[regWave1] & 7), int(regs[regVol1] & 0x0F)},
		{f2, int(regs[regWave2] & 7), int(regs[regVol2] & 0x0F)},
	}
}

// Run advances the generator by ticks chip clocks using the register
// contents. When enabled is false the output is silence but time still
// passes.
func (w *WSG) Run(regs *[32]byte, enabled bool, ticks int) {
	vs := voices(regs)
	for t := 0; t < ticks; t++ {
		mix := 0
		for i, v := range vs {
			w.acc[i] = (w.acc[i] + v.freq) & accMask
			if enabled && v.vol != 0 {
				mix += int(w.waves[v.wave][(w.acc[i]>>15)&0x1F]) * v.vol
			}
		}
		w.sum += mix
		w.n++
		w.phase += w.sampleRate
		if w.phase >= ChipHz {
			w.phase -= ChipHz
			s := clamp(w.sum * mixScale / w.n)
			w.sum, w.n = 0, 0
			w.pushStereo(s, s)
		}
	}
}

func clamp(v int) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// State is the generator's save state.
type State struct {
	Acc   [numVoices]uint32
	Phase uint32
}

func (w *WSG) State() State {
	return State{Acc: w.acc, Phase: uint32(w.phase)}
}

func (w *WSG) Restore(s State) {
	w.acc = s.Acc
	w.phase = int(s.Phase) % ChipHz
	w.sum, w.n = 0, 0
	w.ClearStereoBuffer()
}
