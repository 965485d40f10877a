package trainer

import (
	"fmt"
	"math/rand"
)

// Split holds row indices for the train and holdout partitions.
type Split struct {
	Train []int
	Test  []int
}

// StratifiedSplit partitions rows so each class keeps its proportion in
// both partitions. Shuffling is seeded, so the same inputs always
// produce the same split. Every class needs at least two rows, one for
// each side.
func StratifiedSplit(y []float64, testFraction float64, seed int64) (Split, error) {
	if testFraction <= 0 || testFraction >= 1 {
		return Split{}, fmt.Errorf("trainer: test fraction %v outside (0, 1)", testFraction)
	}

	byClass := map[float64][]int{}
	for i, v := range y {
		byClass[v] = append(byClass[v], i)
	}

	rng := rand.New(rand.NewSource(seed))
	var s Split
	// Iterate classes in a fixed order for determinism.
	for _, class := range []float64{0, 1} {
		idx := byClass[class]
		delete(byClass, class)
		if err := splitClass(&s, idx, class, testFraction, rng); err != nil {
			return Split{}, err
		}
	}
	for class, idx := range byClass {
		if err := splitClass(&s, idx, class, testFraction, rng); err != nil {
			return Split{}, err
		}
	}
	return s, nil
}

func splitClass(s *Split, idx []int, class, testFraction float64, rng *rand.Rand) error {
	if len(idx) == 0 {
		return nil
	}
	if len(idx) < 2 {
		return fmt.Errorf("trainer: class %v has %d row(s), need at least 2 to stratify", class, len(idx))
	}

	shuffled := append([]int(nil), idx...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	nTest := int(float64(len(shuffled))*testFraction + 0.5)
	if nTest == 0 {
		nTest = 1
	}
	if nTest == len(shuffled) {
		nTest = len(shuffled) - 1
	}
	s.Test = append(s.Test, shuffled[:nTest]...)
	s.Train = append(s.Train, shuffled[nTest:]...)
	return nil
}
