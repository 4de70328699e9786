package ui

import (
	"encoding/binary"
	"log"
	"sync/atomic"
	"time"

	"github.com/FabianRolfMatthiasNoll/PacmanEmulator/internal/emu"
)

// applyPlayerBufferSize picks ~20ms of player buffering in low-latency mode
// and the configured amount otherwise.
func (a *App) applyPlayerBufferSize() {
	if a.audioPlayer == nil {
		return
	}
	bufMs := a.cfg.AudioBufferMs
	if a.cfg.AudioLowLatency {
		bufMs = 20
	}
	a.audioPlayer.SetBufferSize(time.Duration(bufMs) * time.Millisecond)
}

// startAudio (re)creates the player. Called again when the output format
// changes.
func (a *App) startAudio() {
	if a.audioPlayer != nil {
		_ = a.audioPlayer.Close()
		a.audioPlayer = nil
	}
	a.audioSrc = &machineStream{m: a.m, mono: !a.cfg.AudioStereo, muted: &a.audioMuted, lowLatency: a.cfg.AudioLowLatency}
	p, err := a.audioCtx.NewPlayer(a.audioSrc)
	if err != nil {
		log.Printf("audio: %v", err)
		return
	}
	a.audioPlayer = p
	a.applyPlayerBufferSize()
	a.audioPlayer.Play()
}

// machineStream implements io.Reader over the machine's sound buffer as
// 16-bit little-endian stereo frames.
type machineStream struct {
	m          *emu.Machine
	mono       bool
	muted      *atomic.Bool
	lowLatency bool
	underruns  int
}

func (s *machineStream) Read(p []byte) (int, error) {
	if len(p) < 4 || (s.muted != nil && s.muted.Load()) {
		silence(p)
		if len(p) >= 4 {
			time.Sleep(5 * time.Millisecond)
		}
		return len(p), nil
	}
	maxReq := len(p) / 4
	capFrames := 2048
	if s.lowLatency {
		capFrames = 1024
	}
	if maxReq > capFrames {
		maxReq = capFrames
	}

	// Wait briefly for the emulator to produce something.
	waitDur := 15 * time.Millisecond
	if s.lowLatency {
		waitDur = 8 * time.Millisecond
	}
	deadline := time.Now().Add(waitDur)
	for s.m.AudioBufferedStereo() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	frames := s.m.AudioPullStereo(maxReq)
	if len(frames) == 0 {
		// underrun: hand back a short silence chunk so the player keeps going
		n := 256
		if n > maxReq {
			n = maxReq
		}
		silence(p[:n*4])
		s.underruns++
		return n * 4, nil
	}
	i := 0
	for j := 0; j+1 < len(frames); j += 2 {
		l, r := frames[j], frames[j+1]
		if s.mono {
			m := int16((int32(l) + int32(r)) / 2)
			l, r = m, m
		}
		binary.LittleEndian.PutUint16(p[i:], uint16(l))
		binary.LittleEndian.PutUint16(p[i+2:], uint16(r))
		i += 4
	}
	return i, nil
}

func silence(p []byte) {
	for i := range p {
		p[i] = 0
	}
}
