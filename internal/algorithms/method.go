package algorithms

import (
	"binarization/internal/processing/local"
	"binarization/internal/processing/polysegment"
	"binarization/internal/processing/threshold"
)

// Method is a configured binarization algorithm. Concrete methods implement
// exactly one capability: threshold.Selector, local.Thresholder or
// polysegment.Classifier.
type Method interface {
	Name() string
}

// Kind classifies a method by the capability it implements.
type Kind int

const (
	KindGlobal Kind = iota
	KindLocal
	KindClassifier
)

func (k Kind) String() string {
	switch k {
	case KindGlobal:
		return "global"
	case KindLocal:
		return "local"
	case KindClassifier:
		return "classifier"
	}
	return "unknown"
}

// KindOf reports the capability of m.
func KindOf(m Method) (Kind, bool) {
	switch m.(type) {
	case threshold.Selector:
		return KindGlobal, true
	case local.Thresholder:
		return KindLocal, true
	case polysegment.Classifier:
		return KindClassifier, true
	}
	return 0, false
}
