package entity

// Confidence is a coarse bucket derived from the raw prediction value
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Confidence bucket boundaries (exclusive lower bounds)
const (
	HighConfidenceThreshold   = 0.7
	MediumConfidenceThreshold = 0.3
)

// ConfidenceFor maps a prediction value to its confidence bucket
func ConfidenceFor(prediction float64) Confidence {
	switch {
	case prediction > HighConfidenceThreshold:
		return ConfidenceHigh
	case prediction > MediumConfidenceThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Prediction is a model output together with its confidence bucket
type Prediction struct {
	Value      float64
	Confidence Confidence
}

// NewPrediction creates a Prediction with the confidence derived from value
func NewPrediction(value float64) *Prediction {
	return &Prediction{
		Value:      value,
		Confidence: ConfidenceFor(value),
	}
}
