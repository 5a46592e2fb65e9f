package segments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlags() (*Flag, *Flag) {
	a := NewFlag("A", MustFromPairs([2]float64{0, 10}), MustFromPairs([2]float64{0, 100}))
	b := NewFlag("B", MustFromPairs([2]float64{5, 15}), MustFromPairs([2]float64{50, 150}))
	return a, b
}

func TestCombineFlags(t *testing.T) {
	a, b := testFlags()

	and, err := CombineFlags(CombineIntersection, a, b)
	require.NoError(t, err)
	assert.Equal(t, "A&B", and.Name)
	assert.Equal(t, pairs([2]float64{5, 10}), and.Active.Pairs())
	assert.Equal(t, pairs([2]float64{50, 100}), and.Known.Pairs())

	or, err := CombineFlags(CombineUnion, a, b)
	require.NoError(t, err)
	assert.Equal(t, "A|B", or.Name)
	assert.Equal(t, pairs([2]float64{0, 15}), or.Active.Pairs())
	assert.Equal(t, pairs([2]float64{0, 150}), or.Known.Pairs())

	// inputs untouched
	assert.Equal(t, pairs([2]float64{0, 10}), a.Active.Pairs())
	assert.Equal(t, pairs([2]float64{5, 15}), b.Active.Pairs())
}

func TestCombineFlags_SingleIsIdentity(t *testing.T) {
	a, _ := testFlags()
	for _, mode := range []Combine{CombineUnion, CombineIntersection} {
		got, err := CombineFlags(mode, a)
		require.NoError(t, err)
		assert.True(t, got.Equal(a), "mode %v", mode)
		assert.NotSame(t, a, got)
	}

	_, err := CombineFlags(CombineUnion)
	assert.ErrorIs(t, err, ErrNoFlags)
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		expr      string
		wantNames []string
		wantMode  Combine
		wantErr   error
	}{
		{expr: "A", wantNames: []string{"A"}, wantMode: CombineUnion},
		{expr: "A&B&C", wantNames: []string{"A", "B", "C"}, wantMode: CombineIntersection},
		{expr: "H1:DMT-X:1 | H1:DMT-Y:1", wantNames: []string{"H1:DMT-X:1", "H1:DMT-Y:1"}, wantMode: CombineUnion},
		{expr: "A&B|C", wantErr: ErrMixedCombine},
		{expr: "A&&B", wantErr: ErrInvalidExpression},
		{expr: "", wantErr: ErrInvalidExpression},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			names, mode, err := ParseExpression(tt.expr)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantMode, mode)
		})
	}
}

func TestResolve(t *testing.T) {
	a, b := testFlags()
	known := map[string]*Flag{"A": a, "B": b}

	got, err := Resolve("A & B", known)
	require.NoError(t, err)
	assert.Equal(t, "A&B", got.Name)
	assert.Equal(t, pairs([2]float64{5, 10}), got.Active.Pairs())

	_, err = Resolve("A|Z", known)
	assert.ErrorIs(t, err, ErrUnknownFlag)
}

func TestParseCombine(t *testing.T) {
	c, err := ParseCombine(" Intersection ")
	require.NoError(t, err)
	assert.Equal(t, CombineIntersection, c)
	assert.Equal(t, "&", c.Operator())
	assert.Equal(t, "Intersection (logical AND)", c.Label())

	c, err = ParseCombine("UNION")
	require.NoError(t, err)
	assert.Equal(t, CombineUnion, c)
	assert.Equal(t, "union", c.String())

	_, err = ParseCombine("xor")
	assert.ErrorIs(t, err, ErrUnknownCombine)
}

func TestFlag_Pad(t *testing.T) {
	a, _ := testFlags()
	padded := a.Pad(1, 2)
	assert.Equal(t, pairs([2]float64{-1, 12}), padded.Active.Pairs())
	assert.True(t, padded.Known.Equal(a.Known))
	assert.Equal(t, "A", padded.Name)
	assert.Equal(t, pairs([2]float64{0, 10}), a.Active.Pairs())
}

func TestFlag_Restrict(t *testing.T) {
	a, _ := testFlags()
	got := a.Restrict(MustFromPairs([2]float64{5, 50}))
	assert.Equal(t, pairs([2]float64{5, 10}), got.Active.Pairs())
	assert.Equal(t, pairs([2]float64{5, 50}), got.Known.Pairs())
}

func TestPadAll(t *testing.T) {
	a, b := testFlags()

	got, err := PadAll([]*Flag{a, b}, []Padding{{Before: 1, After: 1}})
	require.NoError(t, err)
	assert.Equal(t, pairs([2]float64{-1, 11}), got[0].Active.Pairs())
	assert.Equal(t, pairs([2]float64{4, 16}), got[1].Active.Pairs())

	got, err = PadAll([]*Flag{a, b}, []Padding{{Before: 0, After: 0}, {Before: 5, After: 0}})
	require.NoError(t, err)
	assert.True(t, got[0].Equal(a))
	assert.Equal(t, pairs([2]float64{0, 15}), got[1].Active.Pairs())

	got, err = PadAll([]*Flag{a, b}, nil)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = PadAll([]*Flag{a, b}, make([]Padding, 3))
	assert.ErrorIs(t, err, ErrPaddingMismatch)
}

func TestFlag_Equal(t *testing.T) {
	a, b := testFlags()
	var nilFlag *Flag
	assert.True(t, nilFlag.Equal(nil))
	assert.False(t, a.Equal(nil))
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(NewFlag("A", a.Active, a.Known)))
}
