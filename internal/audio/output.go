package audio

import (
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

// Output is the device the analysis graph plays into.
type Output interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
	Close()
}

// Speaker returns the system speaker as an Output.
func Speaker() Output { return speakerOutput{} }

type speakerOutput struct{}

func (speakerOutput) Init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}

func (speakerOutput) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerOutput) Lock()                   { speaker.Lock() }
func (speakerOutput) Unlock()                 { speaker.Unlock() }
func (speakerOutput) Close()                  { speaker.Close() }
