package audio

const maxDelay = 64

// DelayLine is a fixed capacity circular buffer. FeedReturn stores the newest sample and
// returns the one that was fed n calls earlier.
type DelayLine[T float32 | bool] struct {
	buf  [maxDelay]T
	mask int
	pos  int
}

// NewDelayLine returns a delay of n samples. n must be a power of two no larger than 64.
func NewDelayLine[T float32 | bool](n int) DelayLine[T] {
	if n <= 0 || n > maxDelay || n&(n-1) != 0 {
		panic("delay length must be a power of 2 not larger than 64")
	}
	return DelayLine[T]{mask: n - 1}
}

func (d *DelayLine[T]) FeedReturn(x T) T {
	out := d.buf[d.pos]
	d.buf[d.pos] = x
	d.pos = (d.pos + 1) & d.mask
	return out
}

// Fill overwrites the pending contents, used to flush stale modulation when a voice
// starts from silence.
func (d *DelayLine[T]) Fill(v T) {
	for i := 0; i <= d.mask; i++ {
		d.buf[i] = v
	}
}

func (d *DelayLine[T]) Len() int { return d.mask + 1 }
