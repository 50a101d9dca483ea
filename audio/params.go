package audio

import "fmt"

// ParamID identifies a normalized engine parameter.
type ParamID int

const (
	ParamVolume ParamID = iota
	ParamPolyphony
	ParamUnison
	ParamUnisonVoices
	ParamPriority
	ParamLegato
	ParamEconomy
	ParamOversample
	ParamTune
	ParamOctave
	ParamPortamento
	ParamPulseWidth
	ParamPWEnv
	ParamPWEnvBoth
	ParamPWOffset
	ParamOsc1Pitch
	ParamOsc2Pitch
	ParamOsc2Detune
	ParamOsc1Saw
	ParamOsc1Pulse
	ParamOsc2Saw
	ParamOsc2Pulse
	ParamOsc1Mix
	ParamOsc2Mix
	ParamRingMix
	ParamNoiseMix
	ParamNoiseColor
	ParamXMod
	ParamHardSync
	ParamQuantize
	ParamEnvPitch
	ParamEnvPitchBoth
	ParamDetune
	ParamBrightness
	ParamCutoff
	ParamResonance
	ParamMultimode
	ParamBandpass
	ParamFourPole
	ParamPush
	ParamKeyFollow
	ParamFltEnvAmount
	ParamFltEnvInvert
	ParamVelocityAmp
	ParamVelocityFlt
	ParamAmpAttack
	ParamAmpDecay
	ParamAmpSustain
	ParamAmpRelease
	ParamFltAttack
	ParamFltDecay
	ParamFltSustain
	ParamFltRelease
	ParamEnvSlop
	ParamFltSlop
	ParamPortaSlop
	ParamLevelSlop
	ParamLFO1Rate
	ParamLFO1Sync
	ParamLFO1Wave1
	ParamLFO1Wave2
	ParamLFO1Wave3
	ParamLFO1Amt1
	ParamLFO1Amt2
	ParamLFO1Osc1
	ParamLFO1Osc2
	ParamLFO1Filter
	ParamLFO1PW1
	ParamLFO1PW2
	ParamLFO1Volume
	ParamLFO2Rate
	ParamLFO2Sync
	ParamLFO2Wave1
	ParamLFO2Wave2
	ParamLFO2Wave3
	ParamLFO2Amt1
	ParamLFO2Amt2
	ParamLFO2Osc1
	ParamLFO2Osc2
	ParamLFO2Filter
	ParamLFO2PW1
	ParamLFO2PW2
	ParamLFO2Volume
	ParamBendUp
	ParamBendDown
	ParamBendOsc2
	ParamVibratoRate
	ParamPan1
	ParamPan2
	ParamPan3
	ParamPan4
	ParamPan5
	ParamPan6
	ParamPan7
	ParamPan8
	numParams
)

type paramInfo struct {
	name string
	def  float32
	set  func(e *Engine, x float32)
}

var paramTable = [numParams]paramInfo{
	ParamVolume:       {"volume", 0.5, (*Engine).ProcessVolume},
	ParamPolyphony:    {"polyphony", 7.0 / 31, (*Engine).ProcessPolyphony},
	ParamUnison:       {"unison", 0, (*Engine).ProcessUnison},
	ParamUnisonVoices: {"unison.voices", 1.0 / 7, (*Engine).ProcessUnisonVoices},
	ParamPriority:     {"priority", 0, (*Engine).ProcessNotePriority},
	ParamLegato:       {"legato", 1, (*Engine).ProcessLegato},
	ParamEconomy:      {"economy", 1, (*Engine).ProcessEconomy},
	ParamOversample:   {"oversample", 0, (*Engine).ProcessOversample},
	ParamTune:         {"tune", 0.5, (*Engine).ProcessTune},
	ParamOctave:       {"octave", 0.5, (*Engine).ProcessOctave},
	ParamPortamento:   {"portamento", 0, (*Engine).ProcessPortamento},
	ParamPulseWidth:   {"pw", 0, (*Engine).ProcessPulseWidth},
	ParamPWEnv:        {"pw.env", 0, (*Engine).ProcessPWEnv},
	ParamPWEnvBoth:    {"pw.env.both", 0, (*Engine).ProcessPWEnvBoth},
	ParamPWOffset:     {"pw.ofs", 0, (*Engine).ProcessPWOffset},
	ParamOsc1Pitch:    {"osc1.pitch", 0.5, (*Engine).ProcessOsc1Pitch},
	ParamOsc2Pitch:    {"osc2.pitch", 0.5, (*Engine).ProcessOsc2Pitch},
	ParamOsc2Detune:   {"osc2.detune", 0, (*Engine).ProcessOsc2Detune},
	ParamOsc1Saw:      {"osc1.saw", 1, (*Engine).ProcessOsc1Saw},
	ParamOsc1Pulse:    {"osc1.pulse", 0, (*Engine).ProcessOsc1Pulse},
	ParamOsc2Saw:      {"osc2.saw", 1, (*Engine).ProcessOsc2Saw},
	ParamOsc2Pulse:    {"osc2.pulse", 0, (*Engine).ProcessOsc2Pulse},
	ParamOsc1Mix:      {"osc1.mix", 1, (*Engine).ProcessOsc1Mix},
	ParamOsc2Mix:      {"osc2.mix", 1, (*Engine).ProcessOsc2Mix},
	ParamRingMix:      {"ring.mix", 0, (*Engine).ProcessRingMix},
	ParamNoiseMix:     {"noise.mix", 0, (*Engine).ProcessNoiseMix},
	ParamNoiseColor:   {"noise.color", 0, (*Engine).ProcessNoiseColor},
	ParamXMod:         {"xmod", 0, (*Engine).ProcessXMod},
	ParamHardSync:     {"sync", 0, (*Engine).ProcessHardSync},
	ParamQuantize:     {"quantize", 0, (*Engine).ProcessQuantize},
	ParamEnvPitch:     {"env.pitch", 0, (*Engine).ProcessEnvPitch},
	ParamEnvPitchBoth: {"env.pitch.both", 0, (*Engine).ProcessEnvPitchBoth},
	ParamDetune:       {"detune", 0.25, (*Engine).ProcessDetune},
	ParamBrightness:   {"brightness", 1, (*Engine).ProcessBrightness},
	ParamCutoff:       {"cutoff", 1, (*Engine).ProcessCutoff},
	ParamResonance:    {"resonance", 0, (*Engine).ProcessResonance},
	ParamMultimode:    {"multimode", 0, (*Engine).ProcessMultimode},
	ParamBandpass:     {"bandpass", 0, (*Engine).ProcessBandpass},
	ParamFourPole:     {"fourpole", 0, (*Engine).ProcessFourPole},
	ParamPush:         {"push", 0, (*Engine).ProcessPush},
	ParamKeyFollow:    {"keyfollow", 0, (*Engine).ProcessKeyFollow},
	ParamFltEnvAmount: {"flt.env", 0, (*Engine).ProcessFltEnvAmount},
	ParamFltEnvInvert: {"flt.env.invert", 0, (*Engine).ProcessFltEnvInvert},
	ParamVelocityAmp:  {"vel.amp", 0, (*Engine).ProcessVelocityAmp},
	ParamVelocityFlt:  {"vel.flt", 0, (*Engine).ProcessVelocityFlt},
	ParamAmpAttack:    {"amp.attack", 0, (*Engine).ProcessAmpAttack},
	ParamAmpDecay:     {"amp.decay", 0, (*Engine).ProcessAmpDecay},
	ParamAmpSustain:   {"amp.sustain", 1, (*Engine).ProcessAmpSustain},
	ParamAmpRelease:   {"amp.release", 0.1, (*Engine).ProcessAmpRelease},
	ParamFltAttack:    {"flt.attack", 0, (*Engine).ProcessFltAttack},
	ParamFltDecay:     {"flt.decay", 0, (*Engine).ProcessFltDecay},
	ParamFltSustain:   {"flt.sustain", 1, (*Engine).ProcessFltSustain},
	ParamFltRelease:   {"flt.release", 0.1, (*Engine).ProcessFltRelease},
	ParamEnvSlop:      {"slop.env", 0.25, (*Engine).ProcessEnvSlop},
	ParamFltSlop:      {"slop.flt", 0.25, (*Engine).ProcessFltSlop},
	ParamPortaSlop:    {"slop.porta", 0.25, (*Engine).ProcessPortaSlop},
	ParamLevelSlop:    {"slop.level", 0.25, (*Engine).ProcessLevelSlop},
	ParamLFO1Rate:     {"lfo1.rate", 0.2, lfoRate(0)},
	ParamLFO1Sync:     {"lfo1.sync", 0, lfoSync(0)},
	ParamLFO1Wave1:    {"lfo1.wave1", 0, lfoWave(0, 0)},
	ParamLFO1Wave2:    {"lfo1.wave2", 0.5, lfoWave(0, 1)},
	ParamLFO1Wave3:    {"lfo1.wave3", 0.5, lfoWave(0, 2)},
	ParamLFO1Amt1:     {"lfo1.amt1", 0, lfoAmount1(0)},
	ParamLFO1Amt2:     {"lfo1.amt2", 0, lfoAmount2(0)},
	ParamLFO1Osc1:     {"lfo1.osc1", 0, lfoRoute(0, func(r *lfoRouting, on bool) { r.osc1 = on })},
	ParamLFO1Osc2:     {"lfo1.osc2", 0, lfoRoute(0, func(r *lfoRouting, on bool) { r.osc2 = on })},
	ParamLFO1Filter:   {"lfo1.filter", 0, lfoRoute(0, func(r *lfoRouting, on bool) { r.filter = on })},
	ParamLFO1PW1:      {"lfo1.pw1", 0, lfoRoute(0, func(r *lfoRouting, on bool) { r.pw1 = on })},
	ParamLFO1PW2:      {"lfo1.pw2", 0, lfoRoute(0, func(r *lfoRouting, on bool) { r.pw2 = on })},
	ParamLFO1Volume:   {"lfo1.vol", 0, lfoRoute(0, func(r *lfoRouting, on bool) { r.volume = on })},
	ParamLFO2Rate:     {"lfo2.rate", 0.2, lfoRate(1)},
	ParamLFO2Sync:     {"lfo2.sync", 0, lfoSync(1)},
	ParamLFO2Wave1:    {"lfo2.wave1", 0, lfoWave(1, 0)},
	ParamLFO2Wave2:    {"lfo2.wave2", 0.5, lfoWave(1, 1)},
	ParamLFO2Wave3:    {"lfo2.wave3", 0.5, lfoWave(1, 2)},
	ParamLFO2Amt1:     {"lfo2.amt1", 0, lfoAmount1(1)},
	ParamLFO2Amt2:     {"lfo2.amt2", 0, lfoAmount2(1)},
	ParamLFO2Osc1:     {"lfo2.osc1", 0, lfoRoute(1, func(r *lfoRouting, on bool) { r.osc1 = on })},
	ParamLFO2Osc2:     {"lfo2.osc2", 0, lfoRoute(1, func(r *lfoRouting, on bool) { r.osc2 = on })},
	ParamLFO2Filter:   {"lfo2.filter", 0, lfoRoute(1, func(r *lfoRouting, on bool) { r.filter = on })},
	ParamLFO2PW1:      {"lfo2.pw1", 0, lfoRoute(1, func(r *lfoRouting, on bool) { r.pw1 = on })},
	ParamLFO2PW2:      {"lfo2.pw2", 0, lfoRoute(1, func(r *lfoRouting, on bool) { r.pw2 = on })},
	ParamLFO2Volume:   {"lfo2.vol", 0, lfoRoute(1, func(r *lfoRouting, on bool) { r.volume = on })},
	ParamBendUp:       {"bend.up", 2.0 / 24, (*Engine).ProcessBendUp},
	ParamBendDown:     {"bend.down", 2.0 / 24, (*Engine).ProcessBendDown},
	ParamBendOsc2:     {"bend.osc2", 0, (*Engine).ProcessBendOsc2Only},
	ParamVibratoRate:  {"vibrato.rate", 0.3, (*Engine).ProcessVibratoRate},
	ParamPan1:         {"pan1", 0.5, pan(0)},
	ParamPan2:         {"pan2", 0.5, pan(1)},
	ParamPan3:         {"pan3", 0.5, pan(2)},
	ParamPan4:         {"pan4", 0.5, pan(3)},
	ParamPan5:         {"pan5", 0.5, pan(4)},
	ParamPan6:         {"pan6", 0.5, pan(5)},
	ParamPan7:         {"pan7", 0.5, pan(6)},
	ParamPan8:         {"pan8", 0.5, pan(7)},
}

var paramsByName = func() map[string]ParamID {
	m := make(map[string]ParamID, numParams)
	for id, p := range paramTable {
		m[p.name] = ParamID(id)
	}
	return m
}()

func (id ParamID) String() string {
	if id < 0 || id >= numParams {
		return fmt.Sprintf("ParamID(%d)", int(id))
	}
	return paramTable[id].name
}

// Default returns the normalized value the engine starts with.
func (id ParamID) Default() float32 { return paramTable[id].def }

func ParamByName(name string) (ParamID, bool) {
	id, ok := paramsByName[name]
	return id, ok
}

// ParamNames lists all parameters in ID order.
func ParamNames() []string {
	names := make([]string, numParams)
	for id, p := range paramTable {
		names[id] = p.name
	}
	return names
}

// SetParam applies a normalized value, clamped to [0, 1].
func (e *Engine) SetParam(id ParamID, x float32) {
	if id < 0 || id >= numParams {
		return
	}
	x = clamp(x, 0, 1)
	e.params[id] = x
	paramTable[id].set(e, x)
}

func (e *Engine) Param(id ParamID) float32 { return e.params[id] }

func (e *Engine) forEachVoice(fn func(v *Voice)) { e.mb.ForEachVoice(fn) }

func step3(x float32) int {
	switch {
	case x < 1.0/3:
		return 0
	case x < 2.0/3:
		return 1
	default:
		return 2
	}
}

func envTime(x, min float32) float32 { return logsc(x, min, 60000, 900) }

func (e *Engine) ProcessVolume(x float32) { e.mb.volume = linsc(x, 0, 0.30) }

func (e *Engine) ProcessPolyphony(x float32) {
	e.mb.SetPolyphony(roundToInt(x*(MaxVoices-1)) + 1)
}

func (e *Engine) ProcessUnison(x float32) { e.mb.SetUnison(boolParam(x)) }

func (e *Engine) ProcessUnisonVoices(x float32) {
	e.mb.SetUnisonVoices(roundToInt(x*7) + 1)
}

func (e *Engine) ProcessNotePriority(x float32) {
	e.mb.SetNotePriority(NotePriority(step3(x)))
}

func (e *Engine) ProcessLegato(x float32) {
	mode := roundToInt(x * 3)
	e.forEachVoice(func(v *Voice) { v.legato = mode })
}

func (e *Engine) ProcessEconomy(x float32) { e.mb.economy = boolParam(x) }

func (e *Engine) ProcessOversample(x float32) {
	if on := boolParam(x); on != e.mb.oversample {
		e.mb.SetOversample(on)
	}
}

func (e *Engine) ProcessTune(x float32) {
	t := x*2 - 1
	e.forEachVoice(func(v *Voice) { v.osc.tune = t })
}

func (e *Engine) ProcessOctave(x float32) {
	oct := float32((roundToInt(x*4) - 2) * 12)
	e.forEachVoice(func(v *Voice) { v.osc.octave = oct })
}

func (e *Engine) ProcessPortamento(x float32) {
	hz := logsc(1-x, 0.14, 250, 150)
	e.forEachVoice(func(v *Voice) { v.portamento = hz })
}

func (e *Engine) ProcessPulseWidth(x float32) {
	pw := linsc(x, 0, 0.95)
	e.forEachVoice(func(v *Voice) { v.osc.pulseWidth = pw })
}

func (e *Engine) ProcessPWEnv(x float32) {
	amt := linsc(x, 0, 0.85)
	e.forEachVoice(func(v *Voice) { v.pwEnv = amt })
}

func (e *Engine) ProcessPWEnvBoth(x float32) {
	on := boolParam(x)
	e.forEachVoice(func(v *Voice) { v.pwEnvBoth = on })
}

func (e *Engine) ProcessPWOffset(x float32) {
	ofs := linsc(x, 0, 0.75)
	e.forEachVoice(func(v *Voice) { v.pwOfs = ofs })
}

func (e *Engine) ProcessOsc1Pitch(x float32) {
	p := x*48 - 24
	e.forEachVoice(func(v *Voice) { v.osc.osc1Pitch = p })
}

func (e *Engine) ProcessOsc2Pitch(x float32) {
	p := x*48 - 24
	e.forEachVoice(func(v *Voice) { v.osc.osc2Pitch = p })
}

func (e *Engine) ProcessOsc2Detune(x float32) {
	d := logsc(x, 0.001, 0.6, 19)
	e.forEachVoice(func(v *Voice) { v.osc.osc2Detune = d })
}

func (e *Engine) ProcessOsc1Saw(x float32) {
	on := boolParam(x)
	e.forEachVoice(func(v *Voice) { v.osc.osc1Saw = on })
}

func (e *Engine) ProcessOsc1Pulse(x float32) {
	on := boolParam(x)
	e.forEachVoice(func(v *Voice) { v.osc.osc1Pulse = on })
}

func (e *Engine) ProcessOsc2Saw(x float32) {
	on := boolParam(x)
	e.forEachVoice(func(v *Voice) { v.osc.osc2Saw = on })
}

func (e *Engine) ProcessOsc2Pulse(x float32) {
	on := boolParam(x)
	e.forEachVoice(func(v *Voice) { v.osc.osc2Pulse = on })
}

func (e *Engine) ProcessOsc1Mix(x float32) {
	e.forEachVoice(func(v *Voice) { v.osc.osc1Mix = x })
}

func (e *Engine) ProcessOsc2Mix(x float32) {
	e.forEachVoice(func(v *Voice) { v.osc.osc2Mix = x })
}

func (e *Engine) ProcessRingMix(x float32) {
	e.forEachVoice(func(v *Voice) { v.osc.ringMix = x })
}

func (e *Engine) ProcessNoiseMix(x float32) {
	mix := logsc(x, 0, 1, 35)
	e.forEachVoice(func(v *Voice) { v.osc.noiseMix = mix })
}

func (e *Engine) ProcessNoiseColor(x float32) {
	c := NoiseColor(step3(x))
	e.forEachVoice(func(v *Voice) { v.osc.noiseColor = c })
}

func (e *Engine) ProcessXMod(x float32) {
	e.forEachVoice(func(v *Voice) { v.osc.xmod = x * 24 })
}

func (e *Engine) ProcessHardSync(x float32) {
	on := boolParam(x)
	e.forEachVoice(func(v *Voice) { v.osc.hardSync = on })
}

func (e *Engine) ProcessQuantize(x float32) {
	on := boolParam(x)
	e.forEachVoice(func(v *Voice) { v.osc.quantize = on })
}

func (e *Engine) ProcessEnvPitch(x float32) {
	e.forEachVoice(func(v *Voice) { v.envPitch = x * 36 })
}

func (e *Engine) ProcessEnvPitchBoth(x float32) {
	on := boolParam(x)
	e.forEachVoice(func(v *Voice) { v.envPitchBoth = on })
}

func (e *Engine) ProcessDetune(x float32) {
	d := logsc(x, 0.001, 0.90, 19)
	e.forEachVoice(func(v *Voice) { v.osc.detune = d })
}

func (e *Engine) ProcessBrightness(x float32) {
	hz := linsc(x, 7000, 26000)
	e.forEachVoice(func(v *Voice) { v.SetBrightness(hz) })
}

// ProcessCutoff glides to the new cutoff through a smoother.
func (e *Engine) ProcessCutoff(x float32) { e.cutoff.SetTarget(linsc(x, 0, 120)) }

func (e *Engine) ProcessResonance(x float32) {
	res := 0.991 - logsc(1-x, 0, 0.991, 40)
	e.forEachVoice(func(v *Voice) { v.filter.SetResonance(res) })
}

func (e *Engine) ProcessMultimode(x float32) {
	e.forEachVoice(func(v *Voice) { v.filter.SetMultimode(x) })
}

func (e *Engine) ProcessBandpass(x float32) {
	on := boolParam(x)
	e.forEachVoice(func(v *Voice) { v.filter.bandpass = on })
}

func (e *Engine) ProcessFourPole(x float32) {
	on := boolParam(x)
	e.forEachVoice(func(v *Voice) { v.fourPole = on })
}

func (e *Engine) ProcessPush(x float32) {
	on := boolParam(x)
	e.forEachVoice(func(v *Voice) { v.filter.push = on })
}

func (e *Engine) ProcessKeyFollow(x float32) {
	e.forEachVoice(func(v *Voice) { v.keyFollow = x })
}

func (e *Engine) ProcessFltEnvAmount(x float32) {
	amt := linsc(x, 0, 140)
	e.forEachVoice(func(v *Voice) { v.fltEnvAmt = amt })
}

func (e *Engine) ProcessFltEnvInvert(x float32) {
	on := boolParam(x)
	e.forEachVoice(func(v *Voice) { v.invertFltEnv = on })
}

func (e *Engine) ProcessVelocityAmp(x float32) {
	e.forEachVoice(func(v *Voice) { v.velAmp = x })
}

func (e *Engine) ProcessVelocityFlt(x float32) {
	e.forEachVoice(func(v *Voice) { v.velFlt = x })
}

func (e *Engine) ProcessAmpAttack(x float32) {
	ms := envTime(x, 4)
	e.forEachVoice(func(v *Voice) { v.ampEnv.SetAttack(ms) })
}

func (e *Engine) ProcessAmpDecay(x float32) {
	ms := envTime(x, 4)
	e.forEachVoice(func(v *Voice) { v.ampEnv.SetDecay(ms) })
}

func (e *Engine) ProcessAmpSustain(x float32) {
	e.forEachVoice(func(v *Voice) { v.ampEnv.SetSustain(x) })
}

func (e *Engine) ProcessAmpRelease(x float32) {
	ms := envTime(x, 8)
	e.forEachVoice(func(v *Voice) { v.ampEnv.SetRelease(ms) })
}

func (e *Engine) ProcessFltAttack(x float32) {
	ms := envTime(x, 1)
	e.forEachVoice(func(v *Voice) { v.fltEnv.SetAttack(ms) })
}

func (e *Engine) ProcessFltDecay(x float32) {
	ms := envTime(x, 1)
	e.forEachVoice(func(v *Voice) { v.fltEnv.SetDecay(ms) })
}

func (e *Engine) ProcessFltSustain(x float32) {
	e.forEachVoice(func(v *Voice) { v.fltEnv.SetSustain(x) })
}

func (e *Engine) ProcessFltRelease(x float32) {
	ms := envTime(x, 1)
	e.forEachVoice(func(v *Voice) { v.fltEnv.SetRelease(ms) })
}

func (e *Engine) ProcessEnvSlop(x float32) {
	e.forEachVoice(func(v *Voice) { v.SetEnvelopeSlop(x) })
}

func (e *Engine) ProcessFltSlop(x float32) {
	amt := linsc(x, 0, 18)
	e.forEachVoice(func(v *Voice) { v.fltSlopAmt = amt })
}

func (e *Engine) ProcessPortaSlop(x float32) {
	amt := linsc(x, 0, 0.75)
	e.forEachVoice(func(v *Voice) { v.portaSlopAmt = amt })
}

func (e *Engine) ProcessLevelSlop(x float32) {
	amt := linsc(x, 0, 0.67)
	e.forEachVoice(func(v *Voice) { v.levelSlopAmt = amt })
}

func (e *Engine) ProcessBendUp(x float32) {
	st := float32(roundToInt(x * 24))
	e.forEachVoice(func(v *Voice) { v.bendUp = st })
}

func (e *Engine) ProcessBendDown(x float32) {
	st := float32(roundToInt(x * 24))
	e.forEachVoice(func(v *Voice) { v.bendDown = st })
}

func (e *Engine) ProcessBendOsc2Only(x float32) {
	on := boolParam(x)
	e.forEachVoice(func(v *Voice) { v.bendOsc2Only = on })
}

func (e *Engine) ProcessVibratoRate(x float32) {
	e.mb.vibrato.SetFrequency(logsc(x, 3, 10, 19))
}

// lfo 0 is the global LFO on the motherboard, lfo 1 runs in every voice.

func lfoRate(lfo int) func(*Engine, float32) {
	return func(e *Engine, x float32) {
		hz := logsc(x, 0, 50, 120)
		if lfo == 0 {
			e.mb.lfo.SetRawRate(x)
			e.mb.lfo.SetFrequency(hz)
			return
		}
		e.forEachVoice(func(v *Voice) {
			v.lfo2.SetRawRate(x)
			v.lfo2.SetFrequency(hz * (1 + v.slop[slopLFO]*0.1))
		})
	}
}

func lfoSync(lfo int) func(*Engine, float32) {
	return func(e *Engine, x float32) {
		on := boolParam(x)
		if lfo == 0 {
			e.mb.lfo.SetSynced(on)
			return
		}
		e.forEachVoice(func(v *Voice) { v.lfo2.SetSynced(on) })
	}
}

func lfoWave(lfo, wave int) func(*Engine, float32) {
	return func(e *Engine, x float32) {
		knob := x*2 - 1
		if lfo == 0 {
			e.mb.lfo.SetWave(wave, knob)
			return
		}
		e.forEachVoice(func(v *Voice) { v.lfo2.SetWave(wave, knob) })
	}
}

func lfoAmount1(lfo int) func(*Engine, float32) {
	return func(e *Engine, x float32) {
		amt := logsc(logsc(x, 0, 1, 60), 0, 60, 10)
		e.forEachVoice(func(v *Voice) { v.routes[lfo].amt1 = amt })
	}
}

func lfoAmount2(lfo int) func(*Engine, float32) {
	return func(e *Engine, x float32) {
		amt := linsc(x, 0, 0.7)
		e.forEachVoice(func(v *Voice) { v.routes[lfo].amt2 = amt })
	}
}

func lfoRoute(lfo int, set func(r *lfoRouting, on bool)) func(*Engine, float32) {
	return func(e *Engine, x float32) {
		on := boolParam(x)
		e.forEachVoice(func(v *Voice) { set(&v.routes[lfo], on) })
	}
}

func pan(slot int) func(*Engine, float32) {
	return func(e *Engine, x float32) { e.mb.SetPan(slot, x) }
}
