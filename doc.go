// Package binarization converts grayscale images into two-level images.
//
// Global methods (Otsu, Entropy, Yen, Balanced, Intermodes,
// MinimumIntermodes, MinimumError, Moments, UnimodalRosin) select one
// threshold from the intensity histogram. Local methods (AdaptiveThreshold,
// Niblack, Sauvola) derive a threshold per pixel from a window around it.
// Polysegment assigns every pixel to the nearer of two fitted cluster
// centres.
//
// Intensities are float64 values in [0,1]. In the output, 0 is background
// and 1 is foreground; a pixel is foreground when its intensity is at or
// above its threshold.
//
//	img := binarization.FromImage(src)
//	out, err := binarization.Binarize(binarization.Otsu{}, img)
package binarization
