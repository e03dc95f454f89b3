package predictor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Fitting constants. The objective is
//
//	0.5*||w||^2 + C * sum(log(1 + exp(-y_i * (w.x_i + b))))
//
// with an unpenalized intercept b, minimized by damped Newton steps from zero.
const (
	RegularizationC   = 1.0
	MaxIterations     = 100
	Tolerance         = 1e-8
	DecisionThreshold = 0.5
)

// Model is a fitted binary logistic regression.
type Model struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Iterations   int       `json:"iterations"`
}

// Probability returns P(label = true | x).
func (m *Model) Probability(x []float64) float64 {
	return sigmoid(floats.Dot(m.Coefficients, x) + m.Intercept)
}

// Classify applies the decision threshold to x.
func (m *Model) Classify(x []float64) bool {
	return m.Probability(x) > DecisionThreshold
}

// Fit trains a model on rows x with labels y. Rows must share one width.
// Fitting is deterministic for identical input.
func Fit(x [][]float64, y []bool) (*Model, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("predictor: %d rows but %d labels", len(x), len(y))
	}
	if len(x) == 0 {
		return nil, fmt.Errorf("predictor: no training rows")
	}
	nf := len(x[0])
	for i, row := range x {
		if len(row) != nf {
			return nil, fmt.Errorf("predictor: row %d has %d features, want %d", i, len(row), nf)
		}
	}

	// theta holds the coefficients followed by the intercept.
	n := nf + 1
	theta := make([]float64, n)
	grad := make([]float64, n)
	step := make([]float64, n)
	candidate := make([]float64, n)

	iter := 0
	for ; iter < MaxIterations; iter++ {
		loss := objective(x, y, theta)
		gradient(x, y, theta, grad)
		if floats.Norm(grad, math.Inf(1)) < Tolerance {
			break
		}

		if !newtonDirection(x, theta, grad, step) {
			copy(step, grad)
			floats.Scale(-1, step)
		}

		// Backtracking until the Armijo condition holds.
		slope := floats.Dot(grad, step)
		t := 1.0
		for {
			floats.AddScaledTo(candidate, theta, t, step)
			if objective(x, y, candidate) <= loss+1e-4*t*slope || t < 1e-10 {
				break
			}
			t /= 2
		}

		floats.SubTo(step, candidate, theta)
		copy(theta, candidate)
		if floats.Norm(step, math.Inf(1)) < Tolerance {
			iter++
			break
		}
	}

	return &Model{
		Coefficients: append([]float64(nil), theta[:nf]...),
		Intercept:    theta[nf],
		Iterations:   iter,
	}, nil
}

func linear(row, theta []float64) float64 {
	nf := len(row)
	return floats.Dot(theta[:nf], row) + theta[nf]
}

func objective(x [][]float64, y []bool, theta []float64) float64 {
	nf := len(theta) - 1
	penalty := 0.5 * floats.Dot(theta[:nf], theta[:nf])

	var sum float64
	for i, row := range x {
		z := linear(row, theta)
		if y[i] {
			sum += softplus(-z)
		} else {
			sum += softplus(z)
		}
	}
	return penalty + RegularizationC*sum
}

func gradient(x [][]float64, y []bool, theta, grad []float64) {
	nf := len(theta) - 1
	copy(grad, theta)
	grad[nf] = 0
	for i, row := range x {
		r := RegularizationC * (sigmoid(linear(row, theta)) - label(y[i]))
		floats.AddScaled(grad[:nf], r, row)
		grad[nf] += r
	}
}

// newtonDirection solves H*step = -grad and reports whether the Hessian was
// positive definite.
func newtonDirection(x [][]float64, theta, grad, step []float64) bool {
	n := len(theta)
	nf := n - 1
	h := mat.NewSymDense(n, nil)
	for j := 0; j < nf; j++ {
		h.SetSym(j, j, 1)
	}

	aug := make([]float64, n)
	aug[nf] = 1
	for _, row := range x {
		p := sigmoid(linear(row, theta))
		w := RegularizationC * p * (1 - p)
		if w == 0 {
			continue
		}
		copy(aug, row)
		for a := 0; a < n; a++ {
			for b := a; b < n; b++ {
				h.SetSym(a, b, h.At(a, b)+w*aug[a]*aug[b])
			}
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(h); !ok {
		return false
	}

	g := mat.NewVecDense(n, append([]float64(nil), grad...))
	var d mat.VecDense
	if err := chol.SolveVecTo(&d, g); err != nil {
		return false
	}
	for i := range step {
		step[i] = -d.AtVec(i)
	}
	return true
}

func label(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// softplus computes log(1 + exp(s)) without overflow.
func softplus(s float64) float64 {
	return math.Max(s, 0) + math.Log1p(math.Exp(-math.Abs(s)))
}
