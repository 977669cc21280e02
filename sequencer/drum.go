package sequencer

// DrumHit is one pad firing on a step boundary
type DrumHit struct {
	Pad       int
	BufferID  int32
	Amplitude float64
}

// StepsPerSecond is the step rate at a tempo: four sixteenth steps per beat
func StepsPerSecond(bpm float64) float64 {
	return (bpm / 60.0) * 4.0
}

// Pattern returns the active pattern
func (d *DrumState) Pattern() *DrumPatternState {
	return d.Patterns[d.CurrentPattern]
}

// SetPattern switches the active pattern. The switch shows up on the
// next step advance; the running step index and accumulator are kept.
func (d *DrumState) SetPattern(i int) {
	if i < 0 || i >= NumPatterns {
		return
	}
	d.CurrentPattern = i
}

// Advance accumulates elapsed time into step phase and returns every
// step index crossed, in order. The accumulator carries fractional
// phase between frames, so a long stall fires each missed boundary
// instead of collapsing them into one.
func (d *DrumState) Advance(elapsedSeconds, bpm float64) []int {
	if !d.Playing {
		return nil
	}
	d.StepAccumulator += elapsedSeconds * StepsPerSecond(bpm)

	var crossed []int
	length := d.Pattern().Length
	for d.StepAccumulator >= 1.0 {
		d.StepAccumulator -= 1.0
		d.CurrentStep = (d.CurrentStep + 1) % length
		crossed = append(crossed, d.CurrentStep)
	}
	return crossed
}

// Hits lists the pads that fire on the given step of the active
// pattern. A pad without a loaded sample never fires. Amplitude scales
// the step velocity by the pad level.
func (d *DrumState) Hits(step int) []DrumHit {
	p := d.Pattern()
	if step < 0 || step >= p.Length {
		return nil
	}
	var hits []DrumHit
	for pad := 0; pad < NumPads; pad++ {
		if step >= len(p.Steps[pad]) {
			continue
		}
		cell := p.Steps[pad][step]
		if !cell.Active || d.Pads[pad].BufferID == nil {
			continue
		}
		hits = append(hits, DrumHit{
			Pad:       pad,
			BufferID:  *d.Pads[pad].BufferID,
			Amplitude: float64(cell.Velocity) / 127.0 * d.Pads[pad].Level,
		})
	}
	return hits
}

// ToggleStep flips one trigger cell in the active pattern
func (d *DrumState) ToggleStep(pad, step int) {
	p := d.Pattern()
	if pad < 0 || pad >= NumPads || step < 0 || step >= p.Length {
		return
	}
	p.Steps[pad][step].Active = !p.Steps[pad][step].Active
}

// SetStepVelocity sets one cell's velocity, clamped to 1..127
func (d *DrumState) SetStepVelocity(pad, step int, velocity uint8) {
	p := d.Pattern()
	if pad < 0 || pad >= NumPads || step < 0 || step >= p.Length {
		return
	}
	if velocity < 1 {
		velocity = 1
	}
	if velocity > 127 {
		velocity = 127
	}
	p.Steps[pad][step].Velocity = velocity
}

// AllocBufferID hands out the next server buffer number for a pad sample
func (d *DrumState) AllocBufferID() int32 {
	id := d.NextBufferID
	d.NextBufferID++
	return id
}

// AssignSample binds a pad to a loaded sample buffer
func (d *DrumState) AssignSample(pad int, bufferID int32, path, name string) {
	if pad < 0 || pad >= NumPads {
		return
	}
	id := bufferID
	d.Pads[pad].BufferID = &id
	d.Pads[pad].Path = path
	d.Pads[pad].Name = name
}

// SetLength resizes every pad row of the pattern, keeping existing cells
func (p *DrumPatternState) SetLength(length int) {
	if length < 1 || length > MaxSteps {
		return
	}
	for pad := range p.Steps {
		row := p.Steps[pad]
		for len(row) < length {
			row = append(row, DrumStepState{Velocity: DefaultStepVelocity})
		}
		p.Steps[pad] = row
	}
	p.Length = length
}
