package perspectives

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const (
	kmeansSeed     = 42
	kmeansRestarts = 5
	kmeansMaxIter  = 100
)

// kMeans partitions the vectors into k clusters by nearest centroid with
// iterative centroid refinement. The seed is fixed so cluster assignments
// are reproducible across runs; the best of several restarts (by inertia)
// wins, mirroring common k-means defaults.
func kMeans(vectors [][]float64, k int) []int {
	n := len(vectors)
	if n == 0 || k <= 0 {
		return nil
	}
	if k >= n {
		labels := make([]int, n)
		for i := range labels {
			labels[i] = i % k
		}
		return labels
	}

	rng := rand.New(rand.NewSource(kmeansSeed))
	bestInertia := math.Inf(1)
	var bestLabels []int

	for restart := 0; restart < kmeansRestarts; restart++ {
		centroids := initialCentroids(vectors, k, rng)
		labels := make([]int, n)

		for iter := 0; iter < kmeansMaxIter; iter++ {
			changed := false
			for i, vec := range vectors {
				c := nearestCentroid(vec, centroids)
				if c != labels[i] {
					labels[i] = c
					changed = true
				}
			}
			recomputeCentroids(vectors, labels, centroids, rng)
			if !changed && iter > 0 {
				break
			}
		}

		inertia := 0.0
		for i, vec := range vectors {
			d := floats.Distance(vec, centroids[labels[i]], 2)
			inertia += d * d
		}
		if inertia < bestInertia {
			bestInertia = inertia
			bestLabels = append([]int(nil), labels...)
		}
	}
	return bestLabels
}

// initialCentroids samples k distinct vectors as starting centroids.
func initialCentroids(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	perm := rng.Perm(len(vectors))
	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float64(nil), vectors[perm[i]]...)
	}
	return centroids
}

func nearestCentroid(vec []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(vec, centroid, 2); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// recomputeCentroids moves each centroid to the mean of its members. An
// emptied cluster is reseeded from a random vector to keep k stable.
func recomputeCentroids(vectors [][]float64, labels []int, centroids [][]float64, rng *rand.Rand) {
	dim := len(vectors[0])
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, vec := range vectors {
		c := labels[i]
		counts[c]++
		floats.Add(sums[c], vec)
	}
	for c := range centroids {
		if counts[c] == 0 {
			centroids[c] = append([]float64(nil), vectors[rng.Intn(len(vectors))]...)
			continue
		}
		floats.Scale(1/float64(counts[c]), sums[c])
		centroids[c] = sums[c]
	}
}
