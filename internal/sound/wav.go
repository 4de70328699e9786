package sound

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// WAVWriter records interleaved stereo int16 frames to a 16-bit PCM file.
type WAVWriter struct {
	enc *wav.Encoder
	buf *audio.IntBuffer
}

func NewWAVWriter(ws io.WriteSeeker, sampleRate int) *WAVWriter {
	return &WAVWriter{
		enc: wav.NewEncoder(ws, sampleRate, 16, 2, 1),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}
}

func (w *WAVWriter) Write(frames []int16) error {
	if len(frames) == 0 {
		return nil
	}
	data := w.buf.Data[:0]
	for _, s := range frames {
		data = append(data, int(s))
	}
	w.buf.Data = data
	return errors.Wrap(w.enc.Write(w.buf), "sound: write wav")
}

// Close finalizes the header. The underlying writer is left open.
func (w *WAVWriter) Close() error {
	return errors.Wrap(w.enc.Close(), "sound: close wav")
}
