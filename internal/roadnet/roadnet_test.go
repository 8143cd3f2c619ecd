package roadnet

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitlab/citysim/internal/config"
	"github.com/transitlab/citysim/internal/model"
)

func raw(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestParseLanesVariants(t *testing.T) {
	assert.Equal(t, 1, parseLanes(nil))
	assert.Equal(t, 2, parseLanes(raw(t, 2)))
	assert.Equal(t, 1, parseLanes(raw(t, -1)))
	assert.Equal(t, 3, parseLanes(raw(t, "3")))
	assert.Equal(t, 5, parseLanes(raw(t, []int{2, 3})))
}

func TestParseSpeedVariants(t *testing.T) {
	v, ok := parseSpeed(raw(t, 50.0))
	require.True(t, ok)
	assert.Equal(t, 50.0, v)

	v, ok = parseSpeed(raw(t, "60"))
	require.True(t, ok)
	assert.Equal(t, 60.0, v)

	v, ok = parseSpeed(raw(t, []string{"40", "60"}))
	require.True(t, ok)
	assert.Equal(t, 50.0, v)

	_, ok = parseSpeed(raw(t, "not-a-number"))
	assert.False(t, ok)
}

func TestParseHighway(t *testing.T) {
	assert.Equal(t, "residential", parseHighway(raw(t, "residential")))
	assert.Equal(t, "primary", parseHighway(raw(t, []string{"primary", "primary_link"})))
	assert.Equal(t, "unclassified", parseHighway(nil))
}

func TestLoadFromImputesMissingSpeedByHighwayClass(t *testing.T) {
	doc := `{
		"nodes": [
			{"id": 1, "lat": 0, "lon": 0},
			{"id": 2, "lat": 0, "lon": 0.01},
			{"id": 3, "lat": 0, "lon": 0.02}
		],
		"edges": [
			{"from": 1, "to": 2, "key": 1, "length": 1000, "maxspeed": 60, "highway": "primary", "oneway": true, "geometry": [[0,0],[0,0.01]]},
			{"from": 2, "to": 3, "key": 2, "length": 1000, "highway": "primary", "oneway": true, "geometry": [[0,0.01],[0,0.02]]}
		]
	}`
	cfg := config.Default()
	net, err := LoadFrom(strings.NewReader(doc), cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, net.NodeCount())
	e2, ok := net.Edge(model.EdgeKey(2))
	require.True(t, ok)
	assert.InDelta(t, 60*1000.0/3600, e2.MaxSpeed, 1e-9)
}

func TestLoadFromAddsReverseEdgeForTwoWay(t *testing.T) {
	doc := `{
		"nodes": [
			{"id": 1, "lat": 0, "lon": 0},
			{"id": 2, "lat": 0, "lon": 0.01}
		],
		"edges": [
			{"from": 1, "to": 2, "key": 7, "length": 500, "maxspeed": 30, "highway": "residential", "oneway": false, "geometry": [[0,0],[0,0.01]]}
		]
	}`
	cfg := config.Default()
	net, err := LoadFrom(strings.NewReader(doc), cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, net.EdgeCount())
	_, ok := net.Edge(model.EdgeKey(-7))
	assert.True(t, ok)
}
