package audio

import "fmt"

// Voice is one playing instance of a sample. The PCM slice is shared with the sample;
// rate and channels are copied at creation. Only the mix path advances pos.
type Voice struct {
	id       uint64
	note     string
	sample   *Sample
	pcm      []int16
	pos      int // sample index into pcm, 0 <= pos <= length
	length   int
	rate     int
	channels int
}

func newVoice(id uint64, note string, snd *Sample) *Voice {
	return &Voice{
		id:       id,
		note:     note,
		sample:   snd,
		pcm:      snd.PCM,
		length:   len(snd.PCM),
		rate:     snd.SampleRate,
		channels: snd.Channels,
	}
}

func (v *Voice) remaining() int { return v.length - v.pos }

func (v *Voice) done() bool { return v.pos >= v.length }

// peak returns an upper bound of the amplitude still to be played.
func (v *Voice) peak() int32 { return v.sample.PeakFrom(v.pos) }

// VoiceInfo is a snapshot of a voice for display.
type VoiceInfo struct {
	ID       uint64
	Note     string
	Position int
	Length   int
}

func (v VoiceInfo) String() string {
	pct := 100
	if v.Length > 0 {
		pct = 100 * v.Position / v.Length
	}
	return fmt.Sprintf("#%d %s %d%%", v.ID, v.Note, pct)
}

func (v *Voice) info() VoiceInfo {
	return VoiceInfo{ID: v.id, Note: v.note, Position: v.pos, Length: v.length}
}
