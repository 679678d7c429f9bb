package crypto

import (
	"encoding/hex"
	"math"
	"sync/atomic"
	"time"
)

// noiseBytes is the size of one noise block before hex encoding.
const noiseBytes = 32

// Clock returns the current time in milliseconds. It is injectable so noise
// generation can be made deterministic in tests.
type Clock func() int64

func wallClock() int64 { return time.Now().UnixMilli() }

// Noise produces pseudo-random byte material by mixing a numeric seed with
// a monotonically advancing time component through a trigonometric function.
// Output has a fixed shape (32 bytes, hex-encoded), but repeated calls with
// the same seed yield different material: the time component advances by at
// least one per call, even when the clock is frozen or two calls land in the
// same millisecond.
type Noise struct {
	seed  int64
	now   Clock
	calls atomic.Int64
}

// NewNoise builds a noise source for seed. A nil clock falls back to the
// wall clock.
func NewNoise(seed int64, now Clock) *Noise {
	if now == nil {
		now = wallClock
	}
	return &Noise{seed: seed, now: now}
}

// Generate returns one fresh noise block, hex-encoded.
func (n *Noise) Generate() string {
	t := float64(n.now() + n.calls.Add(1))
	buf := make([]byte, noiseBytes)
	for i := range buf {
		v := math.Floor(math.Sin(float64(n.seed)*float64(i)+t) * 10000)
		buf[i] = noiseByte(v)
	}
	return hex.EncodeToString(buf)
}

// noiseByte maps v into 0..255 using the mathematical modulus. sin products
// can be negative, and Go's remainder keeps the sign of the dividend, so the
// result has to be shifted back into byte range before conversion.
func noiseByte(v float64) byte {
	m := math.Mod(v, 256)
	if m < 0 {
		m += 256
	}
	return byte(m)
}
