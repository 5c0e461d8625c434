package dataprocessing

import (
	"cmp"
	"errors"
	"math"
	"sort"
)

// ErrNoData reports an aggregation that needs at least one value but got
// an empty input, e.g. ArgMax over an empty means map. Group-wise
// aggregations over empty tables do not error; they return empty maps.
var ErrNoData = errors.New("no data to aggregate")

// MeanBy computes the arithmetic mean of value per distinct group key.
// Keys appear in the result only if at least one of their rows carries a
// non-NaN value: NaN marks missing data and is excluded from both the sum
// and the count, never treated as zero. An empty input yields an empty
// map.
func MeanBy[T any, K cmp.Ordered](rows []T, key func(T) K, value func(T) float64) map[K]float64 {
	sums := make(map[K]float64)
	counts := make(map[K]int)
	for _, row := range rows {
		v := value(row)
		if math.IsNaN(v) {
			continue
		}
		k := key(row)
		sums[k] += v
		counts[k]++
	}

	means := make(map[K]float64, len(sums))
	for k, sum := range sums {
		means[k] = sum / float64(counts[k])
	}
	return means
}

// CountBy returns the number of rows per distinct group key. An empty
// input yields an empty map.
func CountBy[T any, K cmp.Ordered](rows []T, key func(T) K) map[K]int {
	counts := make(map[K]int)
	for _, row := range rows {
		counts[key(row)]++
	}
	return counts
}

// ArgMax returns the key with the strictly greatest mean. Ties are broken
// by ascending key order, so the result is deterministic regardless of map
// iteration order. An empty map yields ErrNoData.
func ArgMax[K cmp.Ordered](means map[K]float64) (K, error) {
	var zero K
	if len(means) == 0 {
		return zero, ErrNoData
	}

	keys := make([]K, 0, len(means))
	for k := range means {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	best := keys[0]
	for _, k := range keys[1:] {
		if means[k] > means[best] {
			best = k
		}
	}
	return best, nil
}

// OverallMean computes one mean over the union of all groups' values,
// excluding NaN. It returns NaN when no non-NaN value exists, mirroring
// the empty-map behavior of MeanBy.
func OverallMean[T any](groups [][]T, value func(T) float64) float64 {
	var sum float64
	var count int
	for _, rows := range groups {
		for _, row := range rows {
			v := value(row)
			if math.IsNaN(v) {
				continue
			}
			sum += v
			count++
		}
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}
