package audio

// sawOsc is a band limited sawtooth in [-0.5, 0.5). Its naive output is delayed by
// blepSamples so that corrections for past discontinuities line up with it.
type sawOsc struct {
	blep  blepBuffer
	delay DelayLine[float32]
}

func newSawOsc() sawOsc {
	return sawOsc{delay: NewDelayLine[float32](blepSamples)}
}

// processLeader handles the natural wrap of a free running phase. x is the phase after
// this sample's increment, before wrapping.
func (o *sawOsc) processLeader(x, delta float32) {
	if x >= 1 {
		x -= 1
		o.blep.mixStep(x/delta, -1)
	}
}

// processFollower is processLeader for an oscillator that may be hard synced. syncFrac is
// how many samples ago the reset happened. A natural wrap only counts if it came first.
func (o *sawOsc) processFollower(x, delta float32, syncReset bool, syncFrac float32) {
	if x >= 1 {
		x -= 1
		if !syncReset || x/delta > syncFrac {
			o.blep.mixStep(x/delta, -1)
		} else {
			x += 1
		}
	}
	if syncReset {
		reset := delta * syncFrac
		o.blep.mixStep(syncFrac, reset-x)
	}
}

func (o *sawOsc) value(x float32) float32 {
	return o.delay.FeedReturn(x - 0.5)
}

func (o *sawOsc) aliasReduction() float32 { return o.blep.next() }

func (o *sawOsc) setDecimation()    { o.blep.rate = rateDecimated }
func (o *sawOsc) removeDecimation() { o.blep.rate = rateNormal }
