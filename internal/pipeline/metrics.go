package pipeline

import (
	"fmt"
	"math"

	"binarization/internal/models"
)

// drdBlock is the block size used to count non-uniform ground-truth regions.
const drdBlock = 8

// drdWeights is the normalized 5x5 reciprocal-distance matrix.
var drdWeights = newDRDWeights(5)

func newDRDWeights(size int) [][]float64 {
	center := size / 2
	matrix := make([][]float64, size)
	total := 0.0

	for i := range matrix {
		matrix[i] = make([]float64, size)
		for j := range matrix[i] {
			dx := float64(i - center)
			dy := float64(j - center)
			if dx == 0 && dy == 0 {
				continue
			}
			matrix[i][j] = 1.0 / math.Sqrt(dx*dx+dy*dy)
			total += matrix[i][j]
		}
	}

	for i := range matrix {
		for j := range matrix[i] {
			matrix[i][j] /= total
		}
	}
	return matrix
}

// CalculateQuality compares a binarization against its ground truth.
func CalculateQuality(truth, result *models.BinaryImage) (*models.QualityMetrics, error) {
	if truth == nil || result == nil {
		return nil, fmt.Errorf("ground truth and result cannot be nil: %w", models.ErrInvalidInput)
	}
	if truth.Width != result.Width || truth.Height != result.Height {
		return nil, fmt.Errorf("image dimensions must match: truth %dx%d, result %dx%d: %w",
			truth.Width, truth.Height, result.Width, result.Height, models.ErrInvalidInput)
	}

	q := &models.QualityMetrics{}
	calculateConfusion(truth, result, q)

	tp := float64(q.TruePositives)
	fp := float64(q.FalsePositives)
	fn := float64(q.FalseNegatives)
	tn := float64(q.TrueNegatives)

	q.Precision = ratio(tp, tp+fp)
	q.Recall = ratio(tp, tp+fn)
	q.FMeasure = fScore(q.Precision, q.Recall, 1)
	q.FBeta = fScore(q.Precision, q.Recall, 0.5)
	q.IoU = ratio(tp, tp+fp+fn)
	q.Dice = ratio(2*tp, 2*tp+fp+fn)
	q.NRM = (ratio(fn, fn+tp) + ratio(fp, fp+tn)) / 2

	mismatches := fp + fn
	if mismatches == 0 {
		q.PSNR = math.Inf(1)
	} else {
		mse := mismatches / (tp + tn + fp + fn)
		q.PSNR = 10 * math.Log10(1/mse)
	}

	q.DRD = calculateDRD(truth, result)
	return q, nil
}

func calculateConfusion(truth, result *models.BinaryImage, q *models.QualityMetrics) {
	for i, gt := range truth.Pix {
		res := result.Pix[i]
		switch {
		case gt == models.Foreground && res == models.Foreground:
			q.TruePositives++
		case gt == models.Background && res == models.Foreground:
			q.FalsePositives++
		case gt == models.Foreground && res == models.Background:
			q.FalseNegatives++
		default:
			q.TrueNegatives++
		}
	}
}

// calculateDRD sums, for every flipped pixel, the weighted disagreement
// between its new value and the ground truth in its 5x5 neighbourhood, and
// normalizes by the number of non-uniform 8x8 ground-truth blocks.
func calculateDRD(truth, result *models.BinaryImage) float64 {
	size := len(drdWeights)
	center := size / 2
	total := 0.0

	for y := 0; y < truth.Height; y++ {
		for x := 0; x < truth.Width; x++ {
			value := result.At(x, y)
			if truth.At(x, y) == value {
				continue
			}

			for i := 0; i < size; i++ {
				for j := 0; j < size; j++ {
					nx := x + i - center
					ny := y + j - center
					if nx < 0 || nx >= truth.Width || ny < 0 || ny >= truth.Height {
						continue
					}
					if truth.At(nx, ny) != value {
						total += drdWeights[i][j]
					}
				}
			}
		}
	}

	if total == 0 {
		return 0
	}
	blocks := nonUniformBlocks(truth)
	if blocks == 0 {
		blocks = 1
	}
	return total / float64(blocks)
}

func nonUniformBlocks(img *models.BinaryImage) int {
	count := 0
	for by := 0; by < img.Height; by += drdBlock {
		for bx := 0; bx < img.Width; bx += drdBlock {
			first := img.At(bx, by)
			uniform := true
			for y := by; y < by+drdBlock && y < img.Height && uniform; y++ {
				for x := bx; x < bx+drdBlock && x < img.Width; x++ {
					if img.At(x, y) != first {
						uniform = false
						break
					}
				}
			}
			if !uniform {
				count++
			}
		}
	}
	return count
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func fScore(precision, recall, beta float64) float64 {
	b2 := beta * beta
	den := b2*precision + recall
	if den == 0 {
		return 0
	}
	return (1 + b2) * precision * recall / den
}
