package audio

// triangleOsc is a band limited triangle in [-0.5, 0.5]. Its discontinuities are in the
// first derivative, so they are corrected with ramp residuals.
type triangleOsc struct {
	blep  blepBuffer
	delay DelayLine[float32]
}

func newTriangleOsc() triangleOsc {
	return triangleOsc{delay: NewDelayLine[float32](blepSamples)}
}

func triangle(x float32) float32 {
	if x < 0.5 {
		return 2*x - 0.5
	}
	return 1.5 - 2*x
}

// triangleSlope is the derivative of triangle with respect to phase.
func triangleSlope(x float32) float32 {
	if x < 0.5 {
		return 2
	}
	return -2
}

func (o *triangleOsc) processLeader(x, delta float32) {
	if x >= 0.5 && x-delta < 0.5 {
		o.blep.mixRamp((x-0.5)/delta, -4*delta)
	}
	if x >= 1 {
		x -= 1
		o.blep.mixRamp(x/delta, 4*delta)
	}
}

func (o *triangleOsc) processFollower(x, delta float32, syncReset bool, syncFrac float32) {
	if x >= 0.5 && x-delta < 0.5 {
		if frac := (x - 0.5) / delta; !syncReset || frac > syncFrac {
			o.blep.mixRamp(frac, -4*delta)
		}
	}
	if x >= 1 {
		x -= 1
		if frac := x / delta; !syncReset || frac > syncFrac {
			o.blep.mixRamp(frac, 4*delta)
		} else {
			x += 1
		}
	}
	if syncReset {
		// phase at the moment of the reset, jumping back to 0
		p := x - delta*syncFrac
		o.blep.mixStep(syncFrac, triangle(0)-triangle(p))
		o.blep.mixRamp(syncFrac, (triangleSlope(0)-triangleSlope(p))*delta)
	}
}

func (o *triangleOsc) value(x float32) float32 {
	return o.delay.FeedReturn(triangle(x))
}

func (o *triangleOsc) aliasReduction() float32 { return o.blep.next() }

func (o *triangleOsc) setDecimation()    { o.blep.rate = rateDecimated }
func (o *triangleOsc) removeDecimation() { o.blep.rate = rateNormal }
