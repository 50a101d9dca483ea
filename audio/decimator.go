package audio

// halfband taps h1, h3, ... h17 of a 35 tap halfband lowpass. Even taps are zero apart
// from the center tap, 0.5.
var halfbandTaps = [9]float32{
	0.314356238,
	-0.0947515890,
	0.0463142134,
	-0.0240881704,
	0.0120250406,
	-0.00543170841,
	0.00207426259,
	-0.000572688237,
	0.0000821806334,
}

// Decimator17 turns two samples at twice the output rate into one output sample. x0 is the
// even (older) sample of the pair, x1 the odd one.
type Decimator17 struct {
	even [2 * len(halfbandTaps)]float32 // x0 history, newest first
	odd  [len(halfbandTaps)]float32     // x1 delayed to the filter center
}

func (d *Decimator17) Calc(x0, x1 float32) float32 {
	copy(d.even[1:], d.even[:len(d.even)-1])
	d.even[0] = x0

	n := len(halfbandTaps)
	center := d.odd[n-1]
	copy(d.odd[1:], d.odd[:n-1])
	d.odd[0] = x1

	y := 0.5 * center
	for k, h := range halfbandTaps {
		y += h * (d.even[n-1-k] + d.even[n+k])
	}
	return y
}

func (d *Decimator17) Reset() {
	d.even = [2 * len(halfbandTaps)]float32{}
	d.odd = [len(halfbandTaps)]float32{}
}
