package dataprocessing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ec    float64
	value float64
}

func TestMeanBy(t *testing.T) {
	tests := []struct {
		name string
		rows []row
		want map[float64]float64
	}{
		{
			name: "means per group",
			rows: []row{
				{1.0, 10.0}, {1.0, 12.0},
				{2.0, 15.0}, {2.0, 17.0},
			},
			want: map[float64]float64{1.0: 11.0, 2.0: 16.0},
		},
		{
			name: "empty table yields empty map",
			rows: nil,
			want: map[float64]float64{},
		},
		{
			name: "NaN excluded from sum and count",
			rows: []row{
				{1.0, 10.0}, {1.0, math.NaN()}, {1.0, 14.0},
			},
			want: map[float64]float64{1.0: 12.0},
		},
		{
			name: "group with only NaN values never appears",
			rows: []row{
				{1.0, 10.0}, {2.0, math.NaN()},
			},
			want: map[float64]float64{1.0: 10.0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MeanBy(tt.rows,
				func(r row) float64 { return r.ec },
				func(r row) float64 { return r.value })
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountBy(t *testing.T) {
	rows := []row{{1.0, 1}, {1.0, 2}, {4.0, 3}}
	got := CountBy(rows, func(r row) float64 { return r.ec })
	assert.Equal(t, map[float64]int{1.0: 2, 4.0: 1}, got)

	assert.Empty(t, CountBy(nil, func(r row) float64 { return r.ec }))
}

func TestArgMax(t *testing.T) {
	// The experiment scenario: EC 2.0 has the highest mean fresh weight.
	means := map[float64]float64{1.0: 10.2, 2.0: 15.7, 4.0: 12.1, 8.0: 8.4}

	best, err := ArgMax(means)
	require.NoError(t, err)
	assert.Equal(t, 2.0, best)

	// Deterministic: repeated calls over the same map agree.
	for i := 0; i < 20; i++ {
		again, err := ArgMax(means)
		require.NoError(t, err)
		assert.Equal(t, best, again)
	}
}

func TestArgMax_TieBreaksAscending(t *testing.T) {
	best, err := ArgMax(map[float64]float64{8.0: 5.0, 2.0: 5.0, 4.0: 5.0})
	require.NoError(t, err)
	assert.Equal(t, 2.0, best)
}

func TestArgMax_EmptyMapIsNoData(t *testing.T) {
	_, err := ArgMax(map[float64]float64{})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestArgMax_StringKeys(t *testing.T) {
	best, err := ArgMax(map[string]float64{"아라고": 1.0, "송도고": 3.0})
	require.NoError(t, err)
	assert.Equal(t, "송도고", best)
}

func TestOverallMean(t *testing.T) {
	groups := [][]row{
		{{1.0, 10.0}, {1.0, 20.0}},
		{{2.0, 30.0}},
	}
	got := OverallMean(groups, func(r row) float64 { return r.value })
	assert.InDelta(t, 20.0, got, 1e-12)
}

func TestOverallMean_NoValues(t *testing.T) {
	assert.True(t, math.IsNaN(OverallMean(nil, func(r row) float64 { return r.value })))
	assert.True(t, math.IsNaN(OverallMean([][]row{{{1.0, math.NaN()}}}, func(r row) float64 { return r.value })))
}

// Weighted recombination of per-group means must reconstruct the overall
// mean across the whole table.
func TestMeanBy_RecombinesToOverallMean(t *testing.T) {
	rows := []row{
		{1.0, 10.2}, {1.0, 11.8}, {1.0, 9.5},
		{2.0, 15.7}, {2.0, 16.3},
		{4.0, 12.1}, {4.0, 11.9}, {4.0, 12.4}, {4.0, 12.0},
		{8.0, 8.4},
	}

	key := func(r row) float64 { return r.ec }
	value := func(r row) float64 { return r.value }

	means := MeanBy(rows, key, value)
	counts := CountBy(rows, key)

	var weighted float64
	var total int
	for ec, mean := range means {
		weighted += mean * float64(counts[ec])
		total += counts[ec]
	}
	recombined := weighted / float64(total)

	overall := OverallMean([][]row{rows}, value)
	assert.InDelta(t, overall, recombined, 1e-9)
}
