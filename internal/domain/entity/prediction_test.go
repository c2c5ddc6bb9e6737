package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		prediction float64
		expected   Confidence
	}{
		{0.85, ConfidenceHigh},
		{1.0, ConfidenceHigh},
		{0.7000001, ConfidenceHigh},
		{0.7, ConfidenceMedium},
		{0.5, ConfidenceMedium},
		{0.3000001, ConfidenceMedium},
		{0.3, ConfidenceLow},
		{0.1, ConfidenceLow},
		{0, ConfidenceLow},
		{-2.5, ConfidenceLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ConfidenceFor(tt.prediction), "prediction %v", tt.prediction)
	}
}

func TestNewPrediction(t *testing.T) {
	p := NewPrediction(0.85)

	assert.Equal(t, 0.85, p.Value)
	assert.Equal(t, ConfidenceHigh, p.Confidence)
}
