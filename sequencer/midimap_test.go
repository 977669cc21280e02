package sequencer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCcMappingValues(t *testing.T) {
	mapping := &CcMapping{
		CcNumber: CcModWheel,
		Target:   AutomationTarget{Kind: TargetCutoff, Module: uuid.New()},
		MinValue: 20,
		MaxValue: 20000,
	}

	t.Run("maps the controller range onto the value range", func(t *testing.T) {
		assert.InDelta(t, 20, mapping.MapValue(0), 1e-9)
		assert.InDelta(t, 20000, mapping.MapValue(127), 1e-9)
		assert.InDelta(t, 20+64.0/127.0*19980, mapping.MapValue(64), 1e-6)
	})

	t.Run("unmap inverts and clamps", func(t *testing.T) {
		assert.Equal(t, uint8(0), mapping.UnmapValue(20))
		assert.Equal(t, uint8(127), mapping.UnmapValue(20000))
		assert.Equal(t, uint8(0), mapping.UnmapValue(-500))
		assert.Equal(t, uint8(127), mapping.UnmapValue(99999))
	})

	t.Run("round trip is exact for every controller step", func(t *testing.T) {
		for v := 0; v <= 127; v++ {
			assert.Equal(t, uint8(v), mapping.UnmapValue(mapping.MapValue(uint8(v))))
		}
	})

	t.Run("degenerate range unmaps to zero", func(t *testing.T) {
		flat := &CcMapping{MinValue: 5, MaxValue: 5}
		assert.Equal(t, uint8(0), flat.UnmapValue(5))
	})
}

func TestPitchBendValues(t *testing.T) {
	t.Run("rest position sits at center", func(t *testing.T) {
		config := &PitchBendConfig{CenterValue: 0.5, Range: 0.5, Sensitivity: 1}
		assert.InDelta(t, 0.5, config.MapValue(0), 1e-9)
	})

	t.Run("full swing reaches the range asymmetrically", func(t *testing.T) {
		config := &PitchBendConfig{CenterValue: 0.5, Range: 0.5, Sensitivity: 1}

		// Down hits center-range exactly; up stops one wheel step short
		assert.InDelta(t, 0.0, config.MapValue(-8192), 1e-9)
		assert.InDelta(t, 0.5+8191.0/8192.0*0.5, config.MapValue(8191), 1e-9)
		assert.Less(t, config.MapValue(8191), 1.0)
	})

	t.Run("sensitivity scales the swing", func(t *testing.T) {
		config := &PitchBendConfig{CenterValue: 0.5, Range: 0.5, Sensitivity: 0.5}
		assert.InDelta(t, 0.25, config.MapValue(-8192), 1e-9)
	})

	t.Run("default config centers on the target range", func(t *testing.T) {
		config := NewPitchBendConfig(AutomationTarget{Kind: TargetCutoff, Module: uuid.New()})
		assert.InDelta(t, 10010, config.CenterValue, 1e-9)
		assert.InDelta(t, 9990, config.Range, 1e-9)
		assert.Equal(t, 1.0, config.Sensitivity)
	})

	t.Run("sampler rate preset bends around normal speed", func(t *testing.T) {
		config := SamplerRateBend(uuid.New())
		assert.InDelta(t, 1.0, config.MapValue(0), 1e-9)
		assert.InDelta(t, 0.0, config.MapValue(-8192), 1e-9)
		assert.Equal(t, TargetSamplerRate, config.Target.Kind)
	})
}

func TestCcMappingTable(t *testing.T) {
	target := AutomationTarget{Kind: TargetLevel, Module: uuid.New()}
	ch2 := uint8(2)

	t.Run("same number and channel replaces", func(t *testing.T) {
		m := NewMidiMapState()
		m.AddCcMapping(CcMapping{CcNumber: CcVolume, Target: target, MaxValue: 1})
		m.AddCcMapping(CcMapping{CcNumber: CcVolume, Target: target, MaxValue: 2})

		require.Len(t, m.CcMappings, 1)
		assert.Equal(t, 2.0, m.CcMappings[0].MaxValue)
	})

	t.Run("different channels coexist", func(t *testing.T) {
		m := NewMidiMapState()
		m.AddCcMapping(CcMapping{CcNumber: CcVolume, Target: target})
		m.AddCcMapping(CcMapping{CcNumber: CcVolume, Channel: &ch2, Target: target})

		assert.Len(t, m.CcMappings, 2)
	})

	t.Run("nil channel matches any incoming channel", func(t *testing.T) {
		m := NewMidiMapState()
		m.AddCcMapping(CcMapping{CcNumber: CcExpression, Target: target, MaxValue: 9})

		require.NotNil(t, m.FindCcMapping(CcExpression, 0))
		require.NotNil(t, m.FindCcMapping(CcExpression, 15))
		assert.Nil(t, m.FindCcMapping(CcModWheel, 0))
	})

	t.Run("channel specific mapping wins for its channel", func(t *testing.T) {
		m := NewMidiMapState()
		m.AddCcMapping(CcMapping{CcNumber: CcPan, Channel: &ch2, Target: target, MaxValue: 2})
		m.AddCcMapping(CcMapping{CcNumber: CcPan, Target: target, MaxValue: 1})

		found := m.FindCcMapping(CcPan, 2)
		require.NotNil(t, found)
		assert.Equal(t, 2.0, found.MaxValue)

		wildcard := m.FindCcMapping(CcPan, 7)
		require.NotNil(t, wildcard)
		assert.Equal(t, 1.0, wildcard.MaxValue)
	})

	t.Run("remove honors the channel key", func(t *testing.T) {
		m := NewMidiMapState()
		m.AddCcMapping(CcMapping{CcNumber: CcPan, Channel: &ch2, Target: target})
		m.AddCcMapping(CcMapping{CcNumber: CcPan, Target: target})

		m.RemoveCcMapping(CcPan, nil)
		require.Len(t, m.CcMappings, 1)
		assert.NotNil(t, m.CcMappings[0].Channel)
	})
}

func TestPitchBendTable(t *testing.T) {
	m := NewMidiMapState()
	module := uuid.New()
	other := uuid.New()

	t.Run("one config per module", func(t *testing.T) {
		m.AddPitchBend(NewPitchBendConfig(AutomationTarget{Kind: TargetPan, Module: module}))
		m.AddPitchBend(SamplerRateBend(module))

		// The rate preset replaces the pan config outright
		require.Len(t, m.PitchBends, 1)
		assert.Equal(t, TargetSamplerRate, m.PitchBends[0].Target.Kind)
	})

	t.Run("modules do not share configs", func(t *testing.T) {
		m.AddPitchBend(SamplerRateBend(other))
		assert.Len(t, m.PitchBends, 2)

		found := m.FindPitchBend(other)
		require.NotNil(t, found)
		assert.Equal(t, other, found.Target.Module)
		assert.Nil(t, m.FindPitchBend(uuid.New()))
	})

	t.Run("remove drops only that module's config", func(t *testing.T) {
		m.RemovePitchBend(module)
		require.Len(t, m.PitchBends, 1)
		assert.Equal(t, other, m.PitchBends[0].Target.Module)
	})
}

func TestChannelFilter(t *testing.T) {
	m := NewMidiMapState()

	assert.True(t, m.ShouldProcessChannel(0))
	assert.True(t, m.ShouldProcessChannel(15))

	ch := uint8(3)
	m.ChannelFilter = &ch
	assert.True(t, m.ShouldProcessChannel(3))
	assert.False(t, m.ShouldProcessChannel(4))
}

func TestRecordMode(t *testing.T) {
	m := NewMidiMapState()

	t.Run("starting unarmed stays off", func(t *testing.T) {
		m.StartRecording()
		assert.Equal(t, RecordOff, m.RecordMode)
	})

	t.Run("armed goes live on start", func(t *testing.T) {
		m.Arm()
		assert.Equal(t, RecordArmed, m.RecordMode)

		m.StartRecording()
		assert.Equal(t, RecordRecording, m.RecordMode)
	})

	t.Run("stop always lands on off", func(t *testing.T) {
		m.StopRecording()
		assert.Equal(t, RecordOff, m.RecordMode)

		m.Arm()
		m.StopRecording()
		assert.Equal(t, RecordOff, m.RecordMode)
	})
}
