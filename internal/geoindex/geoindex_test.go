package geoindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineMZeroForSamePoint(t *testing.T) {
	assert.Equal(t, 0.0, HaversineM(1, 1, 1, 1))
}

func TestHaversineMKnownDistance(t *testing.T) {
	// One degree of longitude at the equator is ~111.2km.
	d := HaversineM(0, 0, 0, 1)
	assert.InDelta(t, 111195.0, d, 500)
}

func TestNearestReturnsClosestKInOrder(t *testing.T) {
	items := []Item[string]{
		{Lat: 0, Lon: 0, Value: "origin"},
		{Lat: 0, Lon: 0.001, Value: "near"},
		{Lat: 0, Lon: 0.1, Value: "far"},
	}
	idx := New(items)
	got := idx.Nearest(0, 0, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "origin", got[0].Value)
	assert.Equal(t, "near", got[1].Value)
}

func TestNearestZeroKReturnsNil(t *testing.T) {
	idx := New([]Item[int]{{Lat: 0, Lon: 0, Value: 1}})
	assert.Nil(t, idx.Nearest(0, 0, 0))
}

func TestWithinRadiusFiltersByDistance(t *testing.T) {
	items := []Item[string]{
		{Lat: 0, Lon: 0, Value: "origin"},
		{Lat: 0, Lon: 0.001, Value: "near"},
		{Lat: 0, Lon: 1, Value: "far"},
	}
	idx := New(items)
	got := idx.WithinRadius(0, 0, 200)
	var names []string
	for _, it := range got {
		names = append(names, it.Value)
	}
	assert.Contains(t, names, "origin")
	assert.Contains(t, names, "near")
	assert.NotContains(t, names, "far")
}

func TestWithinRadiusEmptyIndex(t *testing.T) {
	idx := New[string](nil)
	assert.Empty(t, idx.WithinRadius(0, 0, 1000))
}
