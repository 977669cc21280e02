package sequencer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func levelLane() *AutomationLane {
	return NewAutomationLane(AutomationTarget{Kind: TargetLevel, Module: uuid.New()})
}

func TestLaneValueAt(t *testing.T) {
	t.Run("no points yields nothing", func(t *testing.T) {
		lane := levelLane()
		_, ok := lane.ValueAt(0)
		assert.False(t, ok)
	})

	t.Run("disabled lane yields nothing", func(t *testing.T) {
		lane := levelLane()
		lane.AddPoint(0, 0.5)
		lane.Enabled = false
		_, ok := lane.ValueAt(0)
		assert.False(t, ok)
	})

	t.Run("before the first point its value holds", func(t *testing.T) {
		lane := levelLane()
		lane.AddPoint(100, 0.5)

		v, ok := lane.ValueAt(0)
		require.True(t, ok)
		assert.InDelta(t, 0.5, v, 1e-9)
	})

	t.Run("past the last point its value holds", func(t *testing.T) {
		lane := levelLane()
		lane.AddPoint(0, 0.2)
		lane.AddPoint(100, 0.8)

		v, ok := lane.ValueAt(5000)
		require.True(t, ok)
		assert.InDelta(t, 0.8, v, 1e-9)
	})

	t.Run("an exact hit returns the point value", func(t *testing.T) {
		lane := levelLane()
		lane.AddPoint(0, 0.0)
		lane.AddPoint(100, 1.0)

		v, ok := lane.ValueAt(100)
		require.True(t, ok)
		assert.InDelta(t, 1.0, v, 1e-9)
	})

	t.Run("linear segment interpolates evenly", func(t *testing.T) {
		lane := levelLane()
		lane.AddPoint(0, 0.0)
		lane.AddPoint(100, 1.0)

		v, ok := lane.ValueAt(25)
		require.True(t, ok)
		assert.InDelta(t, 0.25, v, 1e-9)
	})

	t.Run("exponential eases in", func(t *testing.T) {
		lane := levelLane()
		lane.AddPoint(0, 0.0)
		lane.Points[0].Curve = CurveExponential
		lane.AddPoint(100, 1.0)

		v, ok := lane.ValueAt(50)
		require.True(t, ok)
		assert.InDelta(t, 0.25, v, 1e-9)
	})

	t.Run("step holds until the next point", func(t *testing.T) {
		lane := levelLane()
		lane.AddPoint(0, 0.3)
		lane.Points[0].Curve = CurveStep
		lane.AddPoint(100, 1.0)

		v, ok := lane.ValueAt(99)
		require.True(t, ok)
		assert.InDelta(t, 0.3, v, 1e-9)

		v, ok = lane.ValueAt(100)
		require.True(t, ok)
		assert.InDelta(t, 1.0, v, 1e-9)
	})

	t.Run("scurve is smoothstep", func(t *testing.T) {
		lane := levelLane()
		lane.AddPoint(0, 0.0)
		lane.Points[0].Curve = CurveSCurve
		lane.AddPoint(100, 1.0)

		v, ok := lane.ValueAt(50)
		require.True(t, ok)
		assert.InDelta(t, 0.5, v, 1e-9)

		v, ok = lane.ValueAt(25)
		require.True(t, ok)
		assert.InDelta(t, 0.15625, v, 1e-9) // t^2 * (3 - 2t) at 0.25
	})

	t.Run("the earlier point picks the curve", func(t *testing.T) {
		lane := levelLane()
		lane.AddPoint(0, 0.0)
		lane.Points[0].Curve = CurveStep
		lane.AddPoint(100, 1.0)
		lane.Points[1].Curve = CurveLinear

		v, ok := lane.ValueAt(50)
		require.True(t, ok)
		assert.InDelta(t, 0.0, v, 1e-9)
	})

	t.Run("values map into the lane range", func(t *testing.T) {
		lane := NewAutomationLane(AutomationTarget{Kind: TargetCutoff, Module: uuid.New()})
		lane.AddPoint(0, 0.5)

		v, ok := lane.ValueAt(0)
		require.True(t, ok)
		assert.InDelta(t, 20+0.5*(20000-20), v, 1e-6)
	})
}

func TestLanePoints(t *testing.T) {
	t.Run("points stay sorted regardless of insert order", func(t *testing.T) {
		lane := levelLane()
		lane.AddPoint(300, 0.3)
		lane.AddPoint(100, 0.1)
		lane.AddPoint(200, 0.2)

		require.Len(t, lane.Points, 3)
		assert.Equal(t, uint32(100), lane.Points[0].Tick)
		assert.Equal(t, uint32(200), lane.Points[1].Tick)
		assert.Equal(t, uint32(300), lane.Points[2].Tick)
	})

	t.Run("adding at an occupied tick replaces", func(t *testing.T) {
		lane := levelLane()
		lane.AddPoint(100, 0.1)
		lane.AddPoint(100, 0.9)

		require.Len(t, lane.Points, 1)
		assert.InDelta(t, 0.9, lane.Points[0].Value, 1e-9)
	})

	t.Run("values clamp to the normalized range", func(t *testing.T) {
		lane := levelLane()
		lane.AddPoint(0, 1.5)
		lane.AddPoint(10, -0.25)

		assert.InDelta(t, 1.0, lane.Points[0].Value, 1e-9)
		assert.InDelta(t, 0.0, lane.Points[1].Value, 1e-9)
	})

	t.Run("remove and lookup by tick", func(t *testing.T) {
		lane := levelLane()
		lane.AddPoint(100, 0.1)
		lane.AddPoint(200, 0.2)

		require.NotNil(t, lane.PointAt(200))
		lane.RemovePoint(100)
		assert.Len(t, lane.Points, 1)
		assert.Nil(t, lane.PointAt(100))
	})
}

func TestTargetDefaultRange(t *testing.T) {
	module := uuid.New()
	cases := []struct {
		kind     TargetKind
		min, max float64
	}{
		{TargetLevel, 0, 1},
		{TargetPan, -1, 1},
		{TargetCutoff, 20, 20000},
		{TargetResonance, 0, 1},
		{TargetSamplerRate, -2, 2},
		{TargetSamplerAmp, 0, 1},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			min, max := AutomationTarget{Kind: tc.kind, Module: module}.DefaultRange()
			assert.Equal(t, tc.min, min)
			assert.Equal(t, tc.max, max)
		})
	}
}

func TestAutomationState(t *testing.T) {
	t.Run("one lane per target", func(t *testing.T) {
		a := NewAutomationState()
		target := AutomationTarget{Kind: TargetPan, Module: uuid.New()}

		first := a.AddLane(target)
		second := a.AddLane(target)

		assert.Equal(t, first, second)
		assert.Len(t, a.Lanes, 1)
		require.NotNil(t, a.LaneForTarget(target))
		assert.Equal(t, first, a.LaneForTarget(target).ID)
	})

	t.Run("new lane takes the target range", func(t *testing.T) {
		a := NewAutomationState()
		id := a.AddLane(AutomationTarget{Kind: TargetCutoff, Module: uuid.New()})

		lane := a.Lane(id)
		require.NotNil(t, lane)
		assert.True(t, lane.Enabled)
		assert.Equal(t, 20.0, lane.MinValue)
		assert.Equal(t, 20000.0, lane.MaxValue)
	})

	t.Run("removing a module drops its lanes", func(t *testing.T) {
		a := NewAutomationState()
		doomed, kept := uuid.New(), uuid.New()
		a.AddLane(AutomationTarget{Kind: TargetLevel, Module: doomed})
		a.AddLane(AutomationTarget{Kind: TargetPan, Module: doomed})
		keptID := a.AddLane(AutomationTarget{Kind: TargetLevel, Module: kept})

		a.RemoveLanesForModule(doomed)

		require.Len(t, a.Lanes, 1)
		assert.Equal(t, keptID, a.Lanes[0].ID)
	})

	t.Run("selection follows removals", func(t *testing.T) {
		a := NewAutomationState()
		assert.Nil(t, a.Selected())

		id := a.AddLane(AutomationTarget{Kind: TargetLevel, Module: uuid.New()})
		require.NotNil(t, a.Selected())
		assert.Equal(t, id, a.Selected().ID)

		a.RemoveLane(id)
		assert.Nil(t, a.Selected())
	})
}
