// Package scoring predicts credit limits for known customers with a pre-trained
// linear regression model over a customer feature dataset.
package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Features is the model's input column order.
var Features = []string{"Income", "Rating", "Cards", "Age", "Education", "Gender", "Student", "Married", "Ethnicity", "Balance"}

// Model is an exported linear regression: limit = intercept + Σ coefficient·feature.
type Model struct {
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`

	weights []float64
}

// ReadModel decodes a JSON model and checks that every feature has a weight.
func ReadModel(r io.Reader) (Model, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Model{}, fmt.Errorf("scoring: decode model: %w", err)
	}
	if len(m.Coefficients) == 0 {
		return Model{}, errors.New("scoring: model has no coefficients")
	}
	m.weights = make([]float64, len(Features))
	for i, f := range Features {
		w, ok := m.Coefficients[f]
		if !ok {
			return Model{}, fmt.Errorf("scoring: model missing coefficient %q", f)
		}
		m.weights[i] = w
	}
	return m, nil
}

func LoadModel(path string) (Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return Model{}, fmt.Errorf("scoring: open model: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadModel(f)
}

// Predict expects row in Features order.
func (m Model) Predict(row []float64) float64 {
	y := m.Intercept
	for i, x := range row {
		if i < len(m.weights) {
			y += m.weights[i] * x
		}
	}
	return y
}
