package model

import (
	"github.com/wildstyl3r/bzscope/internal/rng"
)

// Composition mixes channels by summing their weighted cross sections. It owns
// the channels and a default stream for callers that do not supply one.
type Composition struct {
	channels []*Channel
	stream   rng.Stream
}

func NewComposition(channels []*Channel, stream rng.Stream) *Composition {
	return &Composition{channels: channels, stream: stream}
}

func (c *Composition) CrossSection(e float64) float64 {
	total := 0.
	for _, ch := range c.channels {
		total += ch.CrossSection(e)
	}
	return total
}

// Sample picks a channel with probability proportional to its weighted cross
// section at e and lets it draw the outcome. A nil r uses the default stream.
func (c *Composition) Sample(r rng.Stream, e float64) (eFinal, mu float64) {
	if r == nil {
		r = c.stream
	}
	ch := c.selectChannel(r, e)
	if ch == nil {
		return e, 1
	}
	return ch.process.Sample(r, e)
}

func (c *Composition) selectChannel(r rng.Stream, e float64) *Channel {
	if len(c.channels) == 1 {
		return c.channels[0]
	}
	xs := make([]float64, len(c.channels))
	total := 0.
	for i, ch := range c.channels {
		xs[i] = ch.CrossSection(e)
		total += xs[i]
	}
	if !(total > 0) {
		return nil
	}
	choice := r.Generate() * total
	accum := 0.
	for i, ch := range c.channels {
		accum += xs[i]
		if choice < accum {
			return ch
		}
	}
	return c.channels[len(c.channels)-1]
}
