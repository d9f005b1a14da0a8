package nn

import (
	"fmt"
	"math/rand"

	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
)

// NewMLP builds a multi-layer perceptron from a list of layer widths.
//
// widths[0] is the input dimension and widths[len-1] the output dimension.
// Every Linear layer except the last is followed by ReLU; the final layer
// is left bare so the network can produce unbounded outputs.
//
// Example: widths [100, 40, 40] gives
//
//	Linear(100, 40) -> ReLU -> Linear(40, 40)
func NewMLP[B tensor.Backend](rng *rand.Rand, widths []int, backend B) (*Sequential[B], error) {
	if len(widths) < 2 {
		return nil, fmt.Errorf("mlp: need at least 2 widths (input and output), got %d", len(widths))
	}
	for i, w := range widths {
		if w <= 0 {
			return nil, fmt.Errorf("mlp: width %d at index %d must be positive", w, i)
		}
	}

	model := NewSequential[B]()
	for i := 0; i < len(widths)-1; i++ {
		model.Add(NewLinear(rng, widths[i], widths[i+1], backend))
		if i < len(widths)-2 {
			model.Add(NewReLU[B]())
		}
	}
	return model, nil
}
