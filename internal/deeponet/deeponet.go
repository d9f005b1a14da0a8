// Package deeponet implements the Deep Operator Network architecture for
// learning nonlinear operators between function spaces.
//
// A DeepONet approximates an operator G by combining two networks:
//
//	G(u)(y) ≈ Σ_k b_k(u) · t_k(y)
//
// The branch net encodes an input function u through its values at m fixed
// sensor locations; the trunk net encodes a query coordinate y. Both emit
// p-dimensional feature vectors whose inner product is the operator value.
//
// Reference: "Learning nonlinear operators via DeepONet" (Lu et al., 2021)
package deeponet

import (
	"fmt"
	"math/rand"

	"github.com/ppposition/Machine-Learn-discussion/internal/nn"
	"github.com/ppposition/Machine-Learn-discussion/internal/tensor"
)

// Config describes the two sub-network architectures.
type Config struct {
	// BranchWidths are the branch net layer widths. The first entry is the
	// number of sensor locations m, the last the latent dimension p.
	BranchWidths []int

	// TrunkWidths are the trunk net layer widths. The first entry is the
	// query coordinate dimension, the last must equal the branch net's
	// latent dimension.
	TrunkWidths []int

	// Seed initializes the weight RNG so runs are reproducible.
	Seed int64
}

// Validate checks the architecture for construction-time errors.
func (c Config) Validate() error {
	if len(c.BranchWidths) < 2 {
		return fmt.Errorf("deeponet: branch needs at least 2 widths, got %d", len(c.BranchWidths))
	}
	if len(c.TrunkWidths) < 2 {
		return fmt.Errorf("deeponet: trunk needs at least 2 widths, got %d", len(c.TrunkWidths))
	}
	branchOut := c.BranchWidths[len(c.BranchWidths)-1]
	trunkOut := c.TrunkWidths[len(c.TrunkWidths)-1]
	if branchOut != trunkOut {
		return fmt.Errorf("deeponet: branch output width %d must equal trunk output width %d",
			branchOut, trunkOut)
	}
	return nil
}

// DeepONet is the combined branch/trunk operator network.
type DeepONet[B tensor.Backend] struct {
	branch     *nn.Sequential[B]
	trunk      *nn.Sequential[B]
	numSensors int
	queryDim   int
	latentDim  int
	backend    B
}

// New constructs a DeepONet from the given architecture. Both sub-networks
// share a single seeded RNG, so the whole model is reproducible from
// cfg.Seed.
func New[B tensor.Backend](cfg Config, backend B) (*DeepONet[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	branch, err := nn.NewMLP(rng, cfg.BranchWidths, backend)
	if err != nil {
		return nil, fmt.Errorf("deeponet: branch: %w", err)
	}
	trunk, err := nn.NewMLP(rng, cfg.TrunkWidths, backend)
	if err != nil {
		return nil, fmt.Errorf("deeponet: trunk: %w", err)
	}

	return &DeepONet[B]{
		branch:     branch,
		trunk:      trunk,
		numSensors: cfg.BranchWidths[0],
		queryDim:   cfg.TrunkWidths[0],
		latentDim:  cfg.BranchWidths[len(cfg.BranchWidths)-1],
		backend:    backend,
	}, nil
}

// Forward evaluates the operator on a batch of input functions at a set of
// query locations.
//
//	sensors: [N, m]  values of N input functions at the m sensor locations
//	queries: [Q, d]  Q query coordinates
//
// Returns [N, Q]: entry (i, j) is G(u_i)(y_j). Every function in the batch
// is evaluated at every query location, which is exactly the branch/trunk
// inner product:
//
//	branch(sensors) [N, p] @ trunk(queries)ᵀ [p, Q] = [N, Q]
func (d *DeepONet[B]) Forward(sensors, queries *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	sShape := sensors.Shape()
	if len(sShape) != 2 || sShape[1] != d.numSensors {
		panic(fmt.Sprintf("DeepONet.Forward: expected sensors shape [N, %d], got %v", d.numSensors, sShape))
	}
	qShape := queries.Shape()
	if len(qShape) != 2 || qShape[1] != d.queryDim {
		panic(fmt.Sprintf("DeepONet.Forward: expected queries shape [Q, %d], got %v", d.queryDim, qShape))
	}

	b := d.branch.Forward(sensors) // [N, p]
	t := d.trunk.Forward(queries)  // [Q, p]

	return b.MatMul(t.T()) // [N, Q]
}

// Parameters returns all trainable parameters, branch first.
func (d *DeepONet[B]) Parameters() []*nn.Parameter[B] {
	params := d.branch.Parameters()
	return append(params, d.trunk.Parameters()...)
}

// Branch returns the branch sub-network.
func (d *DeepONet[B]) Branch() *nn.Sequential[B] {
	return d.branch
}

// Trunk returns the trunk sub-network.
func (d *DeepONet[B]) Trunk() *nn.Sequential[B] {
	return d.trunk
}

// NumSensors returns the number of sensor locations m.
func (d *DeepONet[B]) NumSensors() int {
	return d.numSensors
}

// QueryDim returns the query coordinate dimension.
func (d *DeepONet[B]) QueryDim() int {
	return d.queryDim
}

// LatentDim returns the shared latent dimension p.
func (d *DeepONet[B]) LatentDim() int {
	return d.latentDim
}
