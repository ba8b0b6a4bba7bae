package models

// PredictRequest carries one set of form values keyed by column.
// Select fields take the option label, numeric fields a number or a decimal string.
type PredictRequest struct {
	Values FormValues `json:"values" validate:"required,min=1"`
}

type BatchPredictRequest struct {
	Rows []FormValues `json:"rows" validate:"required,min=1,max=500,dive,required,min=1"`
}

// RowMaps returns the rows in the form the prediction service takes.
func (r BatchPredictRequest) RowMaps() []map[string]string {
	out := make([]map[string]string, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = row
	}
	return out
}
