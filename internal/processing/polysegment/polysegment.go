// Package polysegment separates two intensity clusters by fitting the
// quadratic that vanishes on both of them (polynomial segmentation via the
// Veronese embedding x -> [x², x, 1]).
package polysegment

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"binarization/internal/models"
)

// coefficientEpsilon is the smallest leading coefficient still treated as a
// genuine quadratic.
const coefficientEpsilon = 1e-12

// Classifier assigns every pixel to the nearer of two cluster centres.
type Classifier interface {
	Name() string
	Classify(img *models.Image) (*Centers, error)
}

// Centers are the two cluster centres recovered from the image.
type Centers struct {
	Lo float64
	Hi float64
}

// Foreground reports whether v is at least as close to Hi as to Lo.
func (c Centers) Foreground(v float64) bool {
	return math.Abs(v-c.Hi) <= math.Abs(v-c.Lo)
}

// Polysegment estimates both centres from the moment matrix of the embedded
// intensities.
type Polysegment struct{}

func (Polysegment) Name() string { return "polysegment" }

func (p Polysegment) Classify(img *models.Image) (*Centers, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	first := img.Pix[0]
	distinct := false
	var s0, s1, s2, s3, s4 float64
	for _, x := range img.Pix {
		if x != first {
			distinct = true
		}
		x2 := x * x
		s0++
		s1 += x
		s2 += x2
		s3 += x2 * x
		s4 += x2 * x2
	}
	if !distinct {
		return nil, fmt.Errorf("%s: image has a single intensity: %w", p.Name(), models.ErrDegenerateHistogram)
	}

	// M = (1/N) Σ ν(x)ν(x)ᵀ with ν(x) = [x², x, 1].
	n := s0
	moments := mat.NewSymDense(3, []float64{
		s4 / n, s3 / n, s2 / n,
		s3 / n, s2 / n, s1 / n,
		s2 / n, s1 / n, 1,
	})

	var eig mat.EigenSym
	if ok := eig.Factorize(moments, true); !ok {
		return nil, fmt.Errorf("%s: eigendecomposition failed: %w", p.Name(), models.ErrDegenerateHistogram)
	}
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	// Eigenvalues are ascending; column 0 belongs to the smallest.
	c0 := vectors.At(0, 0)
	c1 := vectors.At(1, 0)
	c2 := vectors.At(2, 0)
	if math.Abs(c0) < coefficientEpsilon {
		return nil, fmt.Errorf("%s: fitted polynomial is not quadratic: %w", p.Name(), models.ErrDegenerateHistogram)
	}

	disc := c1*c1 - 4*c0*c2
	if disc < 0 {
		disc = 0
	}
	r1 := (-c1 - math.Sqrt(disc)) / (2 * c0)
	r2 := (-c1 + math.Sqrt(disc)) / (2 * c0)

	return &Centers{Lo: math.Min(r1, r2), Hi: math.Max(r1, r2)}, nil
}
