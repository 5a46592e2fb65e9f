package triggers

import (
	"encoding/json"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/go-dqvet/segments"
)

func TestTrigger_Float(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    float64
		wantErr bool
	}{
		{name: "float64", value: 1.5, want: 1.5},
		{name: "float32", value: float32(2), want: 2},
		{name: "int", value: 3, want: 3},
		{name: "int64", value: int64(4), want: 4},
		{name: "int8", value: int8(-3), want: -3},
		{name: "int16", value: int16(300), want: 300},
		{name: "uint", value: uint(7), want: 7},
		{name: "uint8", value: uint8(5), want: 5},
		{name: "uint16", value: uint16(9), want: 9},
		{name: "json number", value: json.Number("5.25"), want: 5.25},
		{name: "bad json number", value: json.Number("x"), wantErr: true},
		{name: "string", value: "6", wantErr: true},
		{name: "nil", value: nil, wantErr: true},
		{name: "bool", value: true, wantErr: true},
		{name: "NaN", value: math.NaN(), wantErr: true},
		{name: "NaN json number", value: json.Number("NaN"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Trigger{"time": tt.value}.Float("time")
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMissingField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Trigger{"snr": 8.0}.Float("time")
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestFromTable(t *testing.T) {
	s, err := FromTable("peak_time", []string{"peak_time", "snr"}, [][]any{
		{10.0, 5.0},
		{20.0, 8.0},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "peak_time", s.TimeField())

	times, err := s.Times()
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20}, times)

	snr, err := s.Column("snr")
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 8}, snr)

	_, err = FromTable("time", []string{"time", "snr"}, [][]any{{1.0}})
	assert.ErrorIs(t, err, ErrShape)
}

func TestNilSet(t *testing.T) {
	var s *Set
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, DefaultTimeField, s.TimeField())
	for range s.All() {
		t.Fatal("nil set yielded a trigger")
	}

	after, vetoed, err := Veto(s, segments.MustFromPairs([2]float64{0, 1}))
	require.NoError(t, err)
	assert.Nil(t, after)
	assert.Nil(t, vetoed)
}

func TestVeto(t *testing.T) {
	active := segments.MustFromPairs([2]float64{10, 20})
	before := FromTimes(5, 15, 25)

	after, vetoed, err := Veto(before, active)
	require.NoError(t, err)

	got, err := after.Times()
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 25}, got)

	got, err = vetoed.Times()
	require.NoError(t, err)
	assert.Equal(t, []float64{15}, got)

	// input untouched
	assert.Equal(t, 3, before.Len())
}

func TestVeto_AllVetoedIsEmptyNotNil(t *testing.T) {
	after, _, err := Veto(FromTimes(11, 12), segments.MustFromPairs([2]float64{10, 20}))
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Equal(t, 0, after.Len())
}

func TestVeto_MissingFieldAborts(t *testing.T) {
	s := New("time", Trigger{"time": 1.0}, Trigger{"snr": 2.0}, Trigger{"time": 3.0})
	after, vetoed, err := Veto(s, segments.MustFromPairs([2]float64{0, 10}))
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "trigger 1")
	assert.Nil(t, after)
	assert.Nil(t, vetoed)
}

func TestVeto_NaNTimeAborts(t *testing.T) {
	after, vetoed, err := Veto(FromTimes(5, math.NaN(), 25), segments.MustFromPairs([2]float64{10, 20}))
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "trigger 1")
	assert.Nil(t, after)
	assert.Nil(t, vetoed)
}

func TestPartition_CompleteAndOrdered(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping randomized test in short mode")
	}
	r := rand.New(rand.NewPCG(7, 11))
	active := segments.MustFromPairs([2]float64{10, 50}, [2]float64{70, 71}, [2]float64{200, 400})

	events := make([]Trigger, 2000)
	for i := range events {
		events[i] = Trigger{"time": r.Float64() * 500, "id": i}
	}
	s := New("", events...)

	inside, outside, err := Partition(s, active)
	require.NoError(t, err)
	require.Equal(t, s.Len(), inside.Len()+outside.Len())

	seen := make(map[int]bool, s.Len())
	for _, part := range []*Set{inside, outside} {
		last := -1
		for _, trig := range part.All() {
			id := trig["id"].(int)
			require.Greater(t, id, last, "relative order not preserved")
			last = id
			require.False(t, seen[id], "trigger %d in both partitions", id)
			seen[id] = true

			tm, _ := trig.Float("time")
			require.Equal(t, part == inside, active.Contains(tm))
		}
	}
	assert.Len(t, seen, s.Len())
}
