package report

import (
	"fmt"
	"strconv"
)

// SpendEdges are the lower bounds of the spend histogram buckets.
var SpendEdges = []float64{0, 50, 100, 250, 500, 1000, 2000, 5000, 10000}

// OrderEdges are the lower bounds of the order-count histogram buckets.
var OrderEdges = []float64{0, 1, 2, 3, 5, 10, 20, 50}

// Bucket is one labeled histogram range with its member count.
type Bucket struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Count int     `json:"count"`
}

// BuildHistogram counts values into buckets bounded by consecutive edges:
// bucket i holds edges[i] <= v < edges[i+1], and the final bucket is
// open-ended. Values below the first edge are not counted, so the counts
// sum to the number of values at or above edges[0].
func BuildHistogram(values []float64, edges []float64) []Bucket {
	buckets := make([]Bucket, len(edges))
	for i, edge := range edges {
		buckets[i] = Bucket{Label: bucketLabel(edges, i), Min: edge}
	}

	for _, value := range values {
		if idx, ok := bucketIndex(edges, value); ok {
			buckets[idx].Count++
		}
	}
	return buckets
}

func bucketIndex(edges []float64, value float64) (int, bool) {
	if len(edges) == 0 || value < edges[0] {
		return 0, false
	}
	for i := 0; i < len(edges)-1; i++ {
		if value < edges[i+1] {
			return i, true
		}
	}
	return len(edges) - 1, true
}

func bucketLabel(edges []float64, i int) string {
	if i == len(edges)-1 {
		return formatEdge(edges[i]) + "+"
	}
	return fmt.Sprintf("%s-%s", formatEdge(edges[i]), formatEdge(edges[i+1]))
}

func formatEdge(edge float64) string {
	return strconv.FormatFloat(edge, 'f', -1, 64)
}
