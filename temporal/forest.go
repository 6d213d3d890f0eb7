package temporal

import (
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
)

const (
	// ForestSize is the fixed tree count of the ensemble.
	ForestSize = 100
	// forestSeed fixes bootstrap sampling so retraining on identical data
	// reproduces the same model.
	forestSeed = 42

	maxTreeDepth = 12
	minLeafSize  = 1
)

// Forest is a bootstrap ensemble of regression trees fit on
// (days_since_start, bias_intensity) -> next observation's bias_intensity.
type Forest struct {
	Trees []*TreeNode
}

// TreeNode is one node of a regression tree. Leaves carry the mean target
// of their samples; internal nodes split on Feature < Threshold.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	Value     float64
	Leaf      bool
}

// TrainForest fits the ensemble. Inputs must be parallel slices with at
// least one sample.
func TrainForest(features [][]float64, targets []float64) (*Forest, error) {
	if len(features) == 0 || len(features) != len(targets) {
		return nil, errors.New("training data is empty or misaligned")
	}

	rng := rand.New(rand.NewSource(forestSeed))
	forest := &Forest{Trees: make([]*TreeNode, ForestSize)}
	for t := 0; t < ForestSize; t++ {
		sampleX := make([][]float64, len(features))
		sampleY := make([]float64, len(targets))
		for i := range sampleX {
			j := rng.Intn(len(features))
			sampleX[i] = features[j]
			sampleY[i] = targets[j]
		}
		forest.Trees[t] = growTree(sampleX, sampleY, 0, rng)
	}
	return forest, nil
}

// Predict averages the trees' outputs for one feature vector.
func (f *Forest) Predict(x []float64) (float64, error) {
	if f == nil || len(f.Trees) == 0 {
		return 0, errors.New("model is not trained")
	}
	sum := 0.0
	for _, tree := range f.Trees {
		sum += tree.predict(x)
	}
	return sum / float64(len(f.Trees)), nil
}

func (n *TreeNode) predict(x []float64) float64 {
	for !n.Leaf {
		if x[n.Feature] < n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

// growTree builds a variance-minimizing binary regression tree.
func growTree(features [][]float64, targets []float64, depth int, rng *rand.Rand) *TreeNode {
	if len(targets) <= minLeafSize || depth >= maxTreeDepth || allEqual(targets) {
		return &TreeNode{Leaf: true, Value: mean(targets)}
	}

	bestFeature, bestThreshold, bestScore := -1, 0.0, math.Inf(1)
	dims := len(features[0])
	for feature := 0; feature < dims; feature++ {
		for i := range features {
			threshold := features[i][feature]
			score, ok := splitScore(features, targets, feature, threshold)
			if ok && score < bestScore {
				bestFeature, bestThreshold, bestScore = feature, threshold, score
			}
		}
	}
	if bestFeature < 0 {
		return &TreeNode{Leaf: true, Value: mean(targets)}
	}

	var leftX, rightX [][]float64
	var leftY, rightY []float64
	for i := range features {
		if features[i][bestFeature] < bestThreshold {
			leftX = append(leftX, features[i])
			leftY = append(leftY, targets[i])
		} else {
			rightX = append(rightX, features[i])
			rightY = append(rightY, targets[i])
		}
	}

	return &TreeNode{
		Feature:   bestFeature,
		Threshold: bestThreshold,
		Left:      growTree(leftX, leftY, depth+1, rng),
		Right:     growTree(rightX, rightY, depth+1, rng),
	}
}

// splitScore is the size-weighted variance of the two partitions. A split
// leaving either side empty is rejected.
func splitScore(features [][]float64, targets []float64, feature int, threshold float64) (float64, bool) {
	var left, right []float64
	for i := range features {
		if features[i][feature] < threshold {
			left = append(left, targets[i])
		} else {
			right = append(right, targets[i])
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return 0, false
	}
	return variance(left)*float64(len(left)) + variance(right)*float64(len(right)), true
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		sum += (v - m) * (v - m)
	}
	return sum / float64(len(values))
}

func allEqual(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] != values[0] {
			return false
		}
	}
	return true
}

// SaveModel serializes the forest as an opaque gob blob, superseding any
// prior version at the path.
func SaveModel(path string, forest *Forest) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp model file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(forest); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush model: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace model: %w", err)
	}
	return nil
}

// LoadModel reads a serialized forest. A missing file yields (nil, nil).
func LoadModel(path string) (*Forest, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open model: %w", err)
	}
	defer file.Close()

	var forest Forest
	if err := gob.NewDecoder(file).Decode(&forest); err != nil {
		return nil, fmt.Errorf("failed to decode model: %w", err)
	}
	return &forest, nil
}
