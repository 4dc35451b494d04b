package binarization

import (
	"image"

	"binarization/internal/algorithms"
	"binarization/internal/logger"
	"binarization/internal/models"
	"binarization/internal/processing/local"
	"binarization/internal/processing/polysegment"
	"binarization/internal/processing/threshold"
)

type (
	// Image is a row-major intensity array with samples in [0,1].
	Image = models.Image
	// BinaryImage holds 0 (background) or 1 (foreground) per pixel.
	BinaryImage = models.BinaryImage
	// Outcome reports the threshold a binarization used.
	Outcome = models.Outcome
	// Method is any configured binarization algorithm.
	Method = algorithms.Method
)

// Global histogram methods.
type (
	Otsu              = threshold.Otsu
	Entropy           = threshold.Entropy
	Yen               = threshold.Yen
	Balanced          = threshold.Balanced
	Intermodes        = threshold.Intermodes
	MinimumIntermodes = threshold.MinimumIntermodes
	MinimumError      = threshold.MinimumError
	Moments           = threshold.Moments
	UnimodalRosin     = threshold.UnimodalRosin
)

// Local and classifier methods.
type (
	AdaptiveThreshold = local.AdaptiveThreshold
	Niblack           = local.Niblack
	Sauvola           = local.Sauvola
	Polysegment       = polysegment.Polysegment
)

var (
	ErrInvalidInput        = models.ErrInvalidInput
	ErrInvalidParameter    = models.ErrInvalidParameter
	ErrDegenerateHistogram = models.ErrDegenerateHistogram
	ErrUnknownMethod       = algorithms.ErrUnknownMethod
)

var engine = algorithms.NewEngine(logger.Nop(), 0, 0)

// Binarize returns the binary image produced by m. img is not modified.
func Binarize(m Method, img *Image) (*BinaryImage, error) {
	out, _, err := engine.Binarize(m, img)
	return out, err
}

// BinarizeInPlace overwrites img with 0 and 1 intensities. For global
// methods the returned Outcome carries the selected bin and threshold.
func BinarizeInPlace(m Method, img *Image) (Outcome, error) {
	return engine.BinarizeInPlace(m, img)
}

// FromImage converts any raster to intensities with the standard luma
// weights.
func FromImage(src image.Image) *Image {
	return models.FromImage(src)
}

// NewImage allocates a zero intensity array.
func NewImage(width, height int) *Image {
	return models.NewImage(width, height)
}

// RecommendSize suggests an odd window size of roughly one eighth of the
// mean image dimension.
func RecommendSize(img *Image) int {
	return local.RecommendSize(img)
}

// NewAdaptiveThreshold returns Bradley's method; the defaults are
// percentage 15 and window size 32.
func NewAdaptiveThreshold(percentage, windowSize int) (AdaptiveThreshold, error) {
	return local.NewAdaptiveThreshold(percentage, windowSize)
}

// NewNiblack returns Niblack's method; the defaults are window size 7 and
// bias 0.2.
func NewNiblack(windowSize int, bias float64) (Niblack, error) {
	return local.NewNiblack(windowSize, bias)
}

// NewSauvola returns Sauvola's method; the defaults are window size 7 and
// bias 0.2.
func NewSauvola(windowSize int, bias float64) (Sauvola, error) {
	return local.NewSauvola(windowSize, bias)
}

// Methods lists the registered method names.
func Methods() []string {
	return algorithms.NewManager().GetAvailableAlgorithms()
}

// MethodByName builds a method from its name and a loosely typed parameter
// map, as read from configuration.
func MethodByName(name string, params map[string]interface{}) (Method, error) {
	return algorithms.NewManager().Build(name, params)
}
