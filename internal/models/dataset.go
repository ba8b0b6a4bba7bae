package models

// DatasetSummary carries the preview metrics of the reference dataset
type DatasetSummary struct {
	Rows          int `json:"rows"`
	Features      int `json:"features"`
	MissingValues int `json:"missing_values"`
}

// DatasetPreview is the head of the reference dataset
type DatasetPreview struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}
