package metric

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/go-dqvet/segments"
	"github.com/jamesainslie/go-dqvet/triggers"
)

// testFlag is active for 10% of its known time.
func testFlag() *segments.Flag {
	return segments.NewFlag("X1:TEST-FLAG:1",
		segments.MustFromPairs([2]float64{10, 20}, [2]float64{50, 60}, [2]float64{90, 100}),
		segments.MustFromPairs([2]float64{0, 300}),
	)
}

func snrTriggers() *triggers.Set {
	s, err := triggers.FromTable("time", []string{"time", "snr"}, [][]any{
		{5.0, 6.0},
		{15.0, 50.0},
		{17.0, 12.0},
		{55.0, 30.0},
		{150.0, 9.0},
		{250.0, 7.0},
	})
	if err != nil {
		panic(err)
	}
	return s
}

func trigInput(f *segments.Flag, s *triggers.Set) Input {
	after, _, err := triggers.Veto(s, f.Active)
	if err != nil {
		panic(err)
	}
	return Input{Flag: f, Triggers: s, After: after}
}

func TestDeadtime(t *testing.T) {
	got, err := Deadtime{}.Evaluate(Input{Flag: testFlag()})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got.Value, 1e-12)
	assert.Equal(t, "%", got.Unit)
	assert.Equal(t, "10.00 %", got.String())

	// active time outside known time does not count
	f := segments.NewFlag("f", segments.MustFromPairs([2]float64{-50, 10}), segments.MustFromPairs([2]float64{0, 100}))
	got, err = Deadtime{}.Evaluate(Input{Flag: f})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got.Value, 1e-12)
}

func TestDeadtime_NoKnownTime(t *testing.T) {
	_, err := Deadtime{}.Evaluate(Input{Flag: segments.FromActive(segments.MustFromPairs([2]float64{0, 1}))})
	assert.ErrorIs(t, err, ErrNoKnownTime)
}

func TestLivetime(t *testing.T) {
	got, err := Livetime{}.Evaluate(Input{Flag: testFlag()})
	require.NoError(t, err)
	assert.Equal(t, 270.0, got.Value)
	assert.Equal(t, "s", got.Unit)
}

func TestEfficiency(t *testing.T) {
	got, err := Efficiency{}.Evaluate(trigInput(testFlag(), snrTriggers()))
	require.NoError(t, err)
	assert.InDelta(t, 50.0, got.Value, 1e-12)

	// After recomputed when absent
	got, err = Efficiency{}.Evaluate(Input{Flag: testFlag(), Triggers: snrTriggers()})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, got.Value, 1e-12)

	got, err = Efficiency{}.Evaluate(trigInput(testFlag(), triggers.FromTimes()))
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Value)

	_, err = Efficiency{}.Evaluate(Input{Flag: testFlag()})
	assert.ErrorIs(t, err, ErrNoTriggers)
}

func TestEfficiencyOverDeadtime(t *testing.T) {
	got, err := EfficiencyOverDeadtime{}.Evaluate(trigInput(testFlag(), snrTriggers()))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got.Value, 1e-12)

	noDead := segments.NewFlag("quiet", segments.IntervalSet{}, segments.MustFromPairs([2]float64{0, 300}))
	got, err = EfficiencyOverDeadtime{}.Evaluate(trigInput(noDead, snrTriggers()))
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Value)
}

func TestUsePercentage(t *testing.T) {
	// triggers land in the first two of three active segments
	got, err := UsePercentage{}.Evaluate(trigInput(testFlag(), snrTriggers()))
	require.NoError(t, err)
	assert.InDelta(t, 200.0/3, got.Value, 1e-9)

	empty := segments.NewFlag("none", segments.IntervalSet{}, segments.MustFromPairs([2]float64{0, 1}))
	got, err = UsePercentage{}.Evaluate(trigInput(empty, snrTriggers()))
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Value)
}

func TestLoudestEvent(t *testing.T) {
	got, err := LoudestEvent{}.Evaluate(trigInput(testFlag(), snrTriggers()))
	require.NoError(t, err)
	assert.Equal(t, 9.0, got.Value)
	assert.Equal(t, "loudest event by snr", LoudestEvent{}.Name())

	all := segments.NewFlag("all", segments.MustFromPairs([2]float64{0, 300}), segments.MustFromPairs([2]float64{0, 300}))
	got, err = LoudestEvent{}.Evaluate(trigInput(all, snrTriggers()))
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Value)

	_, err = LoudestEvent{Column: "amplitude"}.Evaluate(trigInput(testFlag(), snrTriggers()))
	assert.ErrorIs(t, err, triggers.ErrMissingField)
}

func TestMedianAfterVeto(t *testing.T) {
	got, err := MedianAfterVeto{}.Evaluate(trigInput(testFlag(), snrTriggers()))
	require.NoError(t, err)
	// survivors: 6, 9, 7
	assert.Equal(t, 7.0, got.Value)
}

func TestMedianAfterVeto_EvenCount(t *testing.T) {
	s, err := triggers.FromTable("time", []string{"time", "snr"}, [][]any{
		{1.0, 4.0}, {2.0, 1.0}, {3.0, 3.0}, {4.0, 2.0},
	})
	require.NoError(t, err)

	got, err := MedianAfterVeto{}.Evaluate(Input{Flag: testFlag(), Triggers: s, After: s})
	require.NoError(t, err)
	assert.Equal(t, 2.5, got.Value)

	one := triggers.FromTimes(7)
	got, err = MedianAfterVeto{Column: "time"}.Evaluate(Input{Flag: testFlag(), Triggers: one, After: one})
	require.NoError(t, err)
	assert.Equal(t, 7.0, got.Value)
}

func TestSafety(t *testing.T) {
	f := testFlag()

	// 10 injections, deadtime 10% -> expectation 1; one vetoed
	times := []float64{15, 30, 40, 110, 130, 160, 190, 220, 260, 290}
	got, err := Safety{}.Evaluate(Input{Flag: f, Injections: times})
	require.NoError(t, err)
	assert.InDelta(t, -math.Log10(1-math.Exp(-1)), got.Value, 1e-9)

	got, err = Safety{}.Evaluate(Input{Flag: f, Injections: triggers.FromTimes(times...)})
	require.NoError(t, err)
	assert.InDelta(t, -math.Log10(1-math.Exp(-1)), got.Value, 1e-9)

	windows := []segments.Interval{{Start: 19, End: 21}, {Start: 30, End: 31}, {Start: 100, End: 101}}
	got, err = Safety{}.Evaluate(Input{Flag: f, Injections: windows})
	require.NoError(t, err)
	assert.InDelta(t, -math.Log10(1-math.Exp(-0.3)), got.Value, 1e-9)

	got, err = Safety{}.Evaluate(Input{Flag: f, Injections: [][2]float64{{19, 21}, {30, 31}, {100, 101}}})
	require.NoError(t, err)
	assert.InDelta(t, -math.Log10(1-math.Exp(-0.3)), got.Value, 1e-9)

	got, err = Safety{}.Evaluate(Input{Flag: f, Injections: []float64{200}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Value)
}

func TestSafety_Errors(t *testing.T) {
	f := testFlag()
	_, err := Safety{}.Evaluate(Input{Flag: f})
	assert.ErrorIs(t, err, ErrNoInjections)

	_, err = Safety{}.Evaluate(Input{Flag: f, Injections: "injections.xml"})
	assert.ErrorIs(t, err, ErrUnsupportedInjections)

	_, err = Safety{}.Evaluate(Input{Flag: f, Injections: segments.MustFromPairs([2]float64{1, 2})})
	assert.ErrorIs(t, err, ErrUnsupportedInjections)

	_, err = Safety{}.Evaluate(Input{Flag: f, Injections: [][2]float64{{0, 1}, {5, 2}}})
	require.ErrorIs(t, err, segments.ErrInvalidInterval)
	assert.Contains(t, err.Error(), "injection window 1")
}

func TestCountVetoedInjections_TouchingWindows(t *testing.T) {
	active := segments.MustFromPairs([2]float64{0.5, 0.6})

	vetoed, total, err := countVetoedInjections(active, []segments.Interval{
		{Start: 0, End: 1}, {Start: 1, End: 2}, {Start: 2, End: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, vetoed)
	assert.Equal(t, 3, total)

	// overlapping windows both reaching into active time are each vetoed
	vetoed, total, err = countVetoedInjections(active, [][2]float64{{0, 0.55}, {0.52, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, 2, vetoed)
	assert.Equal(t, 3, total)
}

func TestPoissonSignificance(t *testing.T) {
	assert.Equal(t, 0.0, poissonSignificance(0, 3))
	assert.True(t, math.IsInf(poissonSignificance(2, 0), 1))
	assert.Greater(t, poissonSignificance(10, 1), poissonSignificance(2, 1))
}

func TestNeedsInjections(t *testing.T) {
	assert.True(t, NeedsInjections(Safety{}))

	byName := New("SAFETY", "custom safety", "", true, func(Input) (float64, error) { return 0, nil })
	assert.True(t, NeedsInjections(byName))

	assert.False(t, NeedsInjections(Deadtime{}))
}

func TestFunc(t *testing.T) {
	boom := errors.New("boom")
	m := New("ratio", "Ratio of things.\nSecond line.", "x", false, func(in Input) (float64, error) {
		if in.Flag == nil {
			return 0, boom
		}
		return in.Flag.Active.Duration(), nil
	})

	got, err := m.Evaluate(Input{Flag: testFlag()})
	require.NoError(t, err)
	assert.Equal(t, Result{Value: 30, Unit: "x", Description: "Ratio of things.\nSecond line."}, got)
	assert.Equal(t, "Ratio of things.", Summary(m))

	_, err = m.Evaluate(Input{})
	assert.Same(t, boom, err)
}
