package textmodel

// #region imports
import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// #endregion

// #region config

// LogisticConfig controls the gradient-descent fit.
type LogisticConfig struct {
	LearningRate float64
	Epochs       int
	L2           float64
}

// DefaultLogisticConfig returns the fixed optimizer settings used by
// every pipeline in the grid.
func DefaultLogisticConfig() LogisticConfig {
	return LogisticConfig{LearningRate: 0.5, Epochs: 200, L2: 1e-4}
}

// #endregion config

// #region logistic

// Logistic is a binary logistic-regression classifier over sparse
// feature vectors. Weights start at zero and the fit runs a fixed
// number of full-batch epochs, so training is deterministic.
type Logistic struct {
	cfg     LogisticConfig
	weights *mat.VecDense
	bias    float64
}

// NewLogistic creates an unfitted classifier.
func NewLogistic(cfg LogisticConfig) *Logistic {
	return &Logistic{cfg: cfg}
}

// #endregion logistic

// #region fit

// Fit trains on sparse feature vectors of the given dimensionality with
// 0/1 labels.
func (m *Logistic) Fit(xs []map[int]float64, ys []int, dim int) error {
	if len(xs) == 0 {
		return errors.New("fit on empty training set")
	}
	if len(xs) != len(ys) {
		return errors.New("feature/label length mismatch")
	}

	m.weights = mat.NewVecDense(maxInt(dim, 1), nil)
	m.bias = 0

	grad := mat.NewVecDense(m.weights.Len(), nil)
	n := float64(len(xs))

	for epoch := 0; epoch < m.cfg.Epochs; epoch++ {
		grad.Zero()
		var biasGrad float64

		for i, x := range xs {
			err := m.proba(x) - float64(ys[i])
			for j, v := range x {
				grad.SetVec(j, grad.AtVec(j)+err*v)
			}
			biasGrad += err
		}

		// Average gradient plus L2 penalty on the weights.
		grad.ScaleVec(1/n, grad)
		grad.AddScaledVec(grad, m.cfg.L2, m.weights)
		m.weights.AddScaledVec(m.weights, -m.cfg.LearningRate, grad)
		m.bias -= m.cfg.LearningRate * biasGrad / n
	}
	return nil
}

// #endregion fit

// #region predict

// Proba returns P(class = 1) for a sparse feature vector.
func (m *Logistic) Proba(x map[int]float64) float64 {
	return m.proba(x)
}

// Predict returns the discrete label at the 0.5 decision threshold.
func (m *Logistic) Predict(x map[int]float64) int {
	if m.proba(x) >= 0.5 {
		return 1
	}
	return 0
}

func (m *Logistic) proba(x map[int]float64) float64 {
	z := m.bias
	for j, v := range x {
		if j < m.weights.Len() {
			z += m.weights.AtVec(j) * v
		}
	}
	return sigmoid(z)
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// #endregion predict
