package handlers

import (
	"net/http"
	"strconv"

	"github.com/cricketml/prematch/internal/logic"
)

// GetSchema returns the prediction form fields
// @Summary Get Form Schema
// @Tags Dataset
// @Produce json
// @Success 200 {array} form.Field
// @Router /schema [get]
func (h *Handler) GetSchema(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.dataset.Fields())
}

// GetDatasetSummary returns row, feature and missing-value counts
// @Summary Get Dataset Summary
// @Tags Dataset
// @Produce json
// @Success 200 {object} models.DatasetSummary
// @Router /dataset/summary [get]
func (h *Handler) GetDatasetSummary(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, h.dataset.Summary())
}

// GetDatasetPreview returns the first rows of the reference dataset
// @Summary Get Dataset Preview
// @Tags Dataset
// @Produce json
// @Param limit query int false "Rows to return (1-100, default 10)"
// @Success 200 {object} models.DatasetPreview
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /dataset/preview [get]
func (h *Handler) GetDatasetPreview(w http.ResponseWriter, r *http.Request) {
	limit := logic.DefaultPreviewRows
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > MaxPreviewRows {
			h.errorResponse(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	h.jsonResponse(w, http.StatusOK, h.dataset.Preview(limit))
}
