package sound

// The ring is filled by Run on the emulation goroutine and drained by the
// audio player's goroutine; every access holds w.mu.

// pushStereo pushes a stereo frame to the ring buffers.
func (w *WSG) pushStereo(l, r int16) {
	w.mu.Lock()
	defer w.mu.Unlock()
	next := (w.sHead + 1) & (len(w.sL) - 1)
	if next == w.sTail {
		return // drop if full
	}
	w.sL[w.sHead] = l
	w.sR[w.sHead] = r
	w.sHead = next
}

// PullStereo returns up to max stereo frames as an interleaved int16 slice [L0,R0,L1,R1,...].
func (w *WSG) PullStereo(max int) []int16 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if max <= 0 || w.sHead == w.sTail {
		return nil
	}
	count := w.available()
	if count > max {
		count = max
	}
	out := make([]int16, 0, count*2)
	for i := 0; i < count; i++ {
		out = append(out, w.sL[w.sTail], w.sR[w.sTail])
		w.sTail = (w.sTail + 1) & (len(w.sL) - 1)
	}
	return out
}

// StereoAvailable returns the number of stereo frames currently buffered.
func (w *WSG) StereoAvailable() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.available()
}

func (w *WSG) available() int {
	return (w.sHead - w.sTail) & (len(w.sL) - 1)
}

// ClearStereoBuffer drops all buffered frames.
func (w *WSG) ClearStereoBuffer() {
	w.mu.Lock()
	w.sTail = w.sHead
	w.mu.Unlock()
}

// TrimStereoTo drops the oldest frames so at most target remain.
func (w *WSG) TrimStereoTo(target int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if target < 0 {
		target = 0
	}
	if extra := w.available() - target; extra > 0 {
		w.sTail = (w.sTail + extra) & (len(w.sL) - 1)
	}
}
