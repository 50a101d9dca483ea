package audio

// VoiceQueue hands out voices round robin, so consecutive notes land on different voices
// and releases get to ring out.
type VoiceQueue struct {
	voices *[MaxVoices]Voice
	idx    int
	total  int
}

func NewVoiceQueue(voices *[MaxVoices]Voice, total int) VoiceQueue {
	q := VoiceQueue{voices: voices}
	q.Reinit(total)
	return q
}

func (q *VoiceQueue) Reinit(total int) {
	if total < 1 {
		total = 1
	}
	if total > MaxVoices {
		total = MaxVoices
	}
	q.total = total
	q.idx = q.idx % total
}

func (q *VoiceQueue) Next() *Voice {
	v := &q.voices[q.idx]
	q.idx = (q.idx + 1) % q.total
	return v
}

func (q *VoiceQueue) Size() int { return q.total }
