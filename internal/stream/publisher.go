package stream

import (
	"encoding/binary"
	"math"
)

// conn is the slice of nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
}

// Publisher batches samples and publishes each full batch as one message.
type Publisher struct {
	nc      conn
	subject string
	batch   int
	buf     []float32
}

func NewPublisher(nc conn, subject string, batch int) *Publisher {
	if batch < 1 {
		batch = 1
	}
	return &Publisher{
		nc:      nc,
		subject: subject,
		batch:   batch,
		buf:     make([]float32, 0, batch),
	}
}

// Publish appends one sample, flushing when the batch is full.
func (p *Publisher) Publish(v float64) error {
	p.buf = append(p.buf, float32(v))
	if len(p.buf) >= p.batch {
		return p.Flush()
	}
	return nil
}

// Flush publishes any buffered samples immediately.
func (p *Publisher) Flush() error {
	if len(p.buf) == 0 {
		return nil
	}
	data := Encode(p.buf)
	p.buf = p.buf[:0]
	return p.nc.Publish(p.subject, data)
}

// Encode packs samples as little-endian float32.
func Encode(samples []float32) []byte {
	out := make([]byte, 4*len(samples))
	for i, v := range samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// Decode unpacks a message produced by Encode.
func Decode(data []byte) []float32 {
	samples := make([]float32, len(data)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return samples
}
