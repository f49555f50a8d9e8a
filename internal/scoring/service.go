package scoring

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("scoring: id not found")

// Service answers credit-limit lookups from an in-memory dataset.
type Service struct {
	model Model
	data  *Dataset
}

func NewService(model Model, data *Dataset) (*Service, error) {
	if len(model.weights) != len(Features) {
		return nil, errors.New("scoring: model is not loaded")
	}
	if data == nil {
		return nil, errors.New("scoring: dataset must not be nil")
	}
	return &Service{model: model, data: data}, nil
}

// Lookup returns the predicted limit for id, never negative.
func (s *Service) Lookup(_ context.Context, id int) (float64, error) {
	row, ok := s.data.Row(id)
	if !ok {
		return 0, ErrNotFound
	}
	limit := s.model.Predict(row)
	if limit < 0 {
		limit = 0
	}
	return limit, nil
}
