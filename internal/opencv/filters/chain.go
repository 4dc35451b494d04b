// Package filters runs optional OpenCV preprocessing over an intensity image
// before it is binarized.
package filters

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gocv.io/x/gocv"

	"binarization/internal/models"
	"binarization/internal/opencv/conversion"
)

// Filter transforms an 8-bit single-channel matrix. The caller owns the
// returned Mat.
type Filter interface {
	Name() string
	Apply(src gocv.Mat) (gocv.Mat, error)
}

type Chain struct {
	steps []Filter
}

func NewChain(steps ...Filter) *Chain {
	return &Chain{steps: steps}
}

// Parse builds a chain from specs such as "gaussian:1.5", "clahe:3" or
// "median:5". The value after the colon is optional.
func Parse(specs []string) (*Chain, error) {
	chain := NewChain()
	for _, spec := range specs {
		name, value, hasValue := strings.Cut(strings.TrimSpace(spec), ":")
		var arg float64
		if hasValue {
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("filter %q: bad value %q: %w", name, value, models.ErrInvalidParameter)
			}
			arg = v
		}

		var step Filter
		var err error
		switch strings.ToLower(name) {
		case "gaussian":
			step, err = NewGaussian(orDefault(hasValue, arg, DefaultSigma))
		case "clahe":
			step, err = NewCLAHE(orDefault(hasValue, arg, DefaultClipLimit), DefaultTileSize)
		case "median":
			step, err = NewMedian(int(orDefault(hasValue, arg, DefaultMedianSize)))
		default:
			err = fmt.Errorf("unknown filter %q: %w", name, models.ErrInvalidParameter)
		}
		if err != nil {
			return nil, err
		}
		chain.steps = append(chain.steps, step)
	}
	return chain, nil
}

func orDefault(set bool, v, def float64) float64 {
	if set {
		return v
	}
	return def
}

func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.steps)
}

func (c *Chain) Names() []string {
	names := make([]string, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		names = append(names, c.steps[i].Name())
	}
	return names
}

// Execute applies every step in order to a copy of img. An empty chain
// returns img unchanged.
func (c *Chain) Execute(ctx context.Context, img *models.Image) (*models.Image, error) {
	if c.Len() == 0 {
		return img, nil
	}

	current, err := conversion.ImageToMat(img)
	if err != nil {
		return nil, err
	}
	defer func() { current.Close() }()

	for _, step := range c.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		next, err := step.Apply(current)
		if err != nil {
			next.Close()
			return nil, fmt.Errorf("step %s failed: %w", step.Name(), err)
		}
		current.Close()
		current = next
	}

	return conversion.MatToImage(current)
}
