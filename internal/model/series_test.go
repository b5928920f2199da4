package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries_PushAndLen(t *testing.T) {
	s := NewSeries(5)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 5, s.Cap())

	s.Push(1)
	assert.Equal(t, 1, s.Len())

	s.Push(2)
	s.Push(3)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{1, 2, 3}, s.Values())
}

func TestSeries_EvictsOldest(t *testing.T) {
	s := NewSeries(3)

	s.Push(10)
	s.Push(20)
	s.Push(30)
	require.Equal(t, 3, s.Len())

	// Push beyond capacity: oldest (10) is evicted
	s.Push(40)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{20, 30, 40}, s.Values())

	s.Push(50)
	assert.Equal(t, []float64{30, 40, 50}, s.Values())
}

func TestSeries_Capacity60Push61(t *testing.T) {
	s := NewSeries(60)
	for i := 1; i <= 61; i++ {
		s.Push(float64(i))
	}
	vals := s.Values()
	require.Len(t, vals, 60)
	assert.Equal(t, float64(2), vals[0])
	assert.Equal(t, float64(61), vals[59])
	for i, v := range vals {
		assert.Equal(t, float64(i+2), v)
	}
}

func TestSeries_AlwaysHoldsMostRecent(t *testing.T) {
	for _, capacity := range []int{1, 2, 7, 60} {
		s := NewSeries(capacity)
		for n := 1; n <= 3*capacity+1; n++ {
			s.Push(float64(n))

			vals := s.Values()
			want := min(n, capacity)
			require.Len(t, vals, want, "capacity=%d pushes=%d", capacity, n)
			for i, v := range vals {
				assert.Equal(t, float64(n-want+1+i), v)
			}
		}
	}
}

func TestSeries_Clear(t *testing.T) {
	s := NewSeries(4)
	s.Push(1)
	s.Push(2)
	require.Equal(t, 2, s.Len())

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Values())

	// Clearing an empty series is a no-op
	s.Clear()
	assert.Equal(t, 0, s.Len())

	s.Push(99)
	assert.Equal(t, []float64{99}, s.Values())
}

func TestSeries_DefaultCapacity(t *testing.T) {
	s := NewSeries(0)
	for i := 0; i < 65; i++ {
		s.Push(float64(i))
	}
	assert.Equal(t, 60, s.Len())
	vals := s.Values()
	assert.Equal(t, float64(5), vals[0])
	assert.Equal(t, float64(64), vals[59])
}

func TestSeries_Last(t *testing.T) {
	s := NewSeries(2)
	_, ok := s.Last()
	assert.False(t, ok)

	s.Push(1)
	s.Push(2)
	s.Push(3)
	v, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, float64(3), v)
}

func TestSeries_ValuesIsCopy(t *testing.T) {
	s := NewSeries(3)
	s.Push(1)
	vals := s.Values()
	vals[0] = 42
	assert.Equal(t, []float64{1}, s.Values())
}

func TestSeries_AcceptsNonFinite(t *testing.T) {
	s := NewSeries(3)
	s.Push(math.NaN())
	s.Push(math.Inf(1))
	vals := s.Values()
	require.Len(t, vals, 2)
	assert.True(t, math.IsNaN(vals[0]))
	assert.True(t, math.IsInf(vals[1], 1))
}

func TestNewSeriesFrom_KeepsTail(t *testing.T) {
	s := NewSeriesFrom(3, []float64{1, 2, 3, 4, 5})
	assert.Equal(t, []float64{3, 4, 5}, s.Values())
}
