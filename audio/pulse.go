package audio

// pulseOsc is a band limited pulse wave. The output is pw-1 below the width and pw above
// it, which keeps the waveform free of DC for any width.
type pulseOsc struct {
	blep  blepBuffer
	delay DelayLine[float32]
	high  bool
}

func newPulseOsc() pulseOsc {
	return pulseOsc{delay: NewDelayLine[float32](blepSamples)}
}

// crossing returns how many samples ago the phase passed the (possibly moving) width.
// speed is the phase increment relative to the width.
func crossing(x, pw, speed float32) float32 {
	if speed <= 0 {
		return 0
	}
	return (x - pw) / speed
}

func (o *pulseOsc) processLeader(x, delta, pw, pwPrev float32) {
	speed := delta - (pw - pwPrev)
	if o.high && x >= 1 {
		x -= 1
		o.blep.mixStep(x/delta, -1)
		o.high = false
	}
	if !o.high && x >= pw && x-speed <= pw {
		o.blep.mixStep(crossing(x, pw, speed), 1)
		o.high = true
	}
	if o.high && x >= 1 {
		x -= 1
		o.blep.mixStep(x/delta, -1)
		o.high = false
	}
}

func (o *pulseOsc) processFollower(x, delta, pw, pwPrev float32, syncReset bool, syncFrac float32) {
	speed := delta - (pw - pwPrev)
	before := func(frac float32) bool { return !syncReset || frac > syncFrac }

	if o.high && x >= 1 && before((x-1)/delta) {
		x -= 1
		o.blep.mixStep(x/delta, -1)
		o.high = false
	}
	if !o.high && x >= pw && x-speed <= pw {
		if frac := crossing(x, pw, speed); before(frac) {
			o.blep.mixStep(frac, 1)
			o.high = true
		}
	}
	if o.high && x >= 1 && before((x-1)/delta) {
		x -= 1
		o.blep.mixStep(x/delta, -1)
		o.high = false
	}
	if !syncReset {
		return
	}
	// The reset puts the phase at 0, which is always low. If the new phase has already
	// run past the width, it rose again after the reset.
	if o.high {
		o.blep.mixStep(syncFrac, -1)
		o.high = false
	}
	if reset := delta * syncFrac; reset >= pw {
		o.blep.mixStep((reset-pw)/delta, 1)
		o.high = true
	}
}

func (o *pulseOsc) value(x, pw float32) float32 {
	v := pw - 1
	if x >= pw {
		v = pw
	}
	return o.delay.FeedReturn(v)
}

func (o *pulseOsc) aliasReduction() float32 { return o.blep.next() }

func (o *pulseOsc) setDecimation()    { o.blep.rate = rateDecimated }
func (o *pulseOsc) removeDecimation() { o.blep.rate = rateNormal }
