package audio

const (
	MaxVoices   = 32
	numPanSlots = 8
	numKeys     = 129
)

type NotePriority int

const (
	PriorityLatest NotePriority = iota
	PriorityHighest
	PriorityLowest
)

func (p NotePriority) String() string {
	switch p {
	case PriorityHighest:
		return "highest"
	case PriorityLowest:
		return "lowest"
	default:
		return "latest"
	}
}

// Motherboard owns all voices, decides which voice plays which key and mixes them down.
// Its methods must be called from the audio thread.
type Motherboard struct {
	voices    [MaxVoices]Voice
	queue     VoiceQueue
	polyphony int

	unison       bool
	unisonVoices int
	priority     NotePriority

	voiceAge      [numKeys]int // last trigger order per key
	stolen        [numKeys]int // voices taken away from a held key
	playedCounter int

	lfo            LFO
	vibrato        LFO
	vibratoEnabled bool
	modWheel       float32

	pannings   [numPanSlots]float32
	volume     float32
	economy    bool
	oversample bool
	sampleRate float32

	left, right Decimator17
}

// NewMotherboard builds all voices up front. seed makes the analog slop of the voices
// reproducible.
func NewMotherboard(seed int64) *Motherboard {
	m := &Motherboard{
		polyphony:      8,
		unisonVoices:   2,
		volume:         0.1,
		economy:        true,
		vibratoEnabled: true,
		lfo:            NewLFO(seed),
		vibrato:        NewLFO(seed + 1),
	}
	for i := range m.voices {
		m.voices[i] = newVoice(seed + int64(i+1)*1000)
	}
	for i := range m.pannings {
		m.pannings[i] = 0.5
	}
	m.vibrato.SetWave(0, -1)
	m.vibrato.SetFrequency(5)
	m.queue = NewVoiceQueue(&m.voices, m.polyphony)
	m.SetSampleRate(44100)
	return m
}

func (m *Motherboard) SetSampleRate(sr float32) {
	m.sampleRate = sr
	m.SetOversample(m.oversample)
}

// SetOversample runs voices and LFOs at twice the sample rate and decimates the mix.
func (m *Motherboard) SetOversample(on bool) {
	m.oversample = on
	rate := m.sampleRate
	if on {
		rate *= 2
	}
	m.lfo.SetSampleRate(rate)
	m.vibrato.SetSampleRate(rate)
	for i := range m.voices {
		m.voices[i].SetSampleRate(rate)
		m.voices[i].SetHQ(on)
	}
	m.left.Reset()
	m.right.Reset()
}

// SetPolyphony releases voices above the new count immediately.
func (m *Motherboard) SetPolyphony(n int) {
	if n < 1 {
		n = 1
	}
	if n > MaxVoices {
		n = MaxVoices
	}
	for i := n; i < MaxVoices; i++ {
		m.voices[i].NoteOff()
		m.voices[i].ResetEnvelopes()
	}
	m.polyphony = n
	m.queue.Reinit(n)
}

func (m *Motherboard) Polyphony() int { return m.polyphony }

func (m *Motherboard) SetUnison(on bool) { m.unison = on }

func (m *Motherboard) SetUnisonVoices(n int) {
	m.unisonVoices = clampInt(n, 1, MaxVoices)
}

// SetNotePriority stores the policy. Only PriorityLatest changes scheduling today, the
// other policies steal like it.
func (m *Motherboard) SetNotePriority(p NotePriority) { m.priority = p }

func (m *Motherboard) SetPan(slot int, pan float32) {
	m.pannings[slot%numPanSlots] = clamp(pan, 0, 1)
}

func (m *Motherboard) ForEachVoice(fn func(v *Voice)) {
	for i := range m.voices {
		fn(&m.voices[i])
	}
}

func (m *Motherboard) Voice(i int) *Voice { return &m.voices[i] }

func (m *Motherboard) countActiveVoices() int {
	n := 0
	for i := 0; i < m.polyphony; i++ {
		if m.voices[i].gated {
			n++
		}
	}
	return n
}

// nextVoiceToBeStolen returns the gated voice whose key was triggered longest ago.
func (m *Motherboard) nextVoiceToBeStolen() *Voice {
	var oldest *Voice
	age := 0
	for i := 0; i < m.polyphony; i++ {
		v := m.queue.Next()
		if !v.gated {
			continue
		}
		if oldest == nil || m.voiceAge[v.note] < age {
			oldest = v
			age = m.voiceAge[v.note]
		}
	}
	return oldest
}

func validKey(note int) bool { return note >= 0 && note < numKeys-1 }

func (m *Motherboard) NoteOn(note int, velocity float32) {
	if !validKey(note) {
		return
	}
	m.playedCounter++
	m.voiceAge[note] = m.playedCounter
	vel := NewVelocity(velocity)

	needed := 1
	if m.unison {
		needed = m.unisonVoices
	}
	if needed > m.polyphony {
		needed = m.polyphony
	}
	available := m.polyphony - m.countActiveVoices()

	for steal := needed - available; steal > 0; steal-- {
		v := m.nextVoiceToBeStolen()
		if v == nil {
			break
		}
		m.stolen[v.note]++
		v.NoteOn(note, vel)
		needed--
	}
	for i := 0; i < m.polyphony && needed > 0; i++ {
		if v := m.queue.Next(); !v.gated {
			v.NoteOn(note, vel)
			needed--
		}
	}
}

// pendingKey returns the most recently triggered key that lost voices to a steal and is
// still held, or -1.
func (m *Motherboard) pendingKey(exclude int) int {
	key, age := -1, 0
	for k := 0; k < numKeys-1; k++ {
		if k != exclude && m.stolen[k] > 0 && m.voiceAge[k] > age {
			key, age = k, m.voiceAge[k]
		}
	}
	return key
}

// NoteOff hands the voices of the released key back to keys that lost them, or releases
// them.
func (m *Motherboard) NoteOff(note int) {
	if !validKey(note) {
		return
	}
	for i := 0; i < m.polyphony; i++ {
		v := m.queue.Next()
		if !v.gated || v.note != note {
			continue
		}
		if key := m.pendingKey(note); key >= 0 {
			m.stolen[key]--
			v.NoteOn(key, KeepVelocity)
		} else {
			v.NoteOff()
		}
	}
	m.stolen[note] = 0
}

func (m *Motherboard) SustainOn() {
	m.ForEachVoice(func(v *Voice) { v.SustainOn() })
}

func (m *Motherboard) SustainOff() {
	m.ForEachVoice(func(v *Voice) { v.SustainOff() })
}

func (m *Motherboard) AllNotesOff() {
	for i := range m.voices {
		m.voices[i].NoteOff()
	}
	m.stolen = [numKeys]int{}
}

// AllSoundOff silences every voice immediately.
func (m *Motherboard) AllSoundOff() {
	for i := range m.voices {
		v := &m.voices[i]
		v.sustainHold = false
		v.NoteOff()
		v.ResetEnvelopes()
	}
	m.stolen = [numKeys]int{}
}

func (m *Motherboard) vibratoValue() float32 {
	if !m.vibratoEnabled {
		return 0
	}
	return m.vibrato.Value() * m.modWheel * m.modWheel * 4
}

func (m *Motherboard) processVoice(v *Voice, lfo, vibrato float32) float32 {
	if m.economy {
		v.checkADSRState()
	}
	if m.economy && !v.shouldProcess {
		return 0
	}
	v.lfo1In = lfo
	v.vibratoIn = vibrato
	return v.ProcessSample()
}

func (m *Motherboard) mix(lfo, vibrato float32) (float32, float32) {
	var l, r float32
	for i := 0; i < m.polyphony; i++ {
		x := m.processVoice(&m.voices[i], lfo, vibrato)
		pan := m.pannings[i%numPanSlots]
		l += x * (1 - pan)
		r += x * pan
	}
	return l, r
}

func (m *Motherboard) ProcessSample() (float32, float32) {
	m.lfo.Update()
	m.vibrato.Update()
	l, r := m.mix(m.lfo.Value(), m.vibratoValue())
	if m.oversample {
		m.lfo.Update()
		m.vibrato.Update()
		l2, r2 := m.mix(m.lfo.Value(), m.vibratoValue())
		l = m.left.Calc(l, l2)
		r = m.right.Calc(r, r2)
	}
	return l * m.volume, r * m.volume
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
