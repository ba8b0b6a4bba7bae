package logic

import (
	"github.com/cricketml/prematch/internal/artifact"
	"github.com/cricketml/prematch/internal/form"
	"github.com/cricketml/prematch/internal/models"
)

// DefaultPreviewRows is the number of rows shown on the dataset preview.
const DefaultPreviewRows = 10

type datasetService struct {
	bundle *artifact.Bundle
}

func NewDatasetService(bundle *artifact.Bundle) DatasetService {
	return &datasetService{bundle: bundle}
}

func (s *datasetService) Summary() models.DatasetSummary {
	rows, cols := s.bundle.Dataset.Shape()
	return models.DatasetSummary{
		Rows:          rows,
		Features:      cols,
		MissingValues: s.bundle.Dataset.MissingCount(),
	}
}

func (s *datasetService) Preview(limit int) models.DatasetPreview {
	if limit <= 0 {
		limit = DefaultPreviewRows
	}
	return models.DatasetPreview{
		Columns: s.bundle.Dataset.Columns(),
		Rows:    s.bundle.Dataset.Head(limit),
	}
}

func (s *datasetService) Fields() []form.Field {
	return s.bundle.Schema.Fields
}

func (s *datasetService) Defaults() map[string]string {
	return s.bundle.Schema.Defaults()
}
