package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cricketml/prematch/internal/logic"
	"github.com/cricketml/prematch/internal/models"
)

// PostPredict scores one set of pre-match values
// @Summary Predict Match Winner
// @Tags Prediction
// @Accept json
// @Produce json
// @Param body body models.PredictRequest true "Form values keyed by column"
// @Success 200 {object} models.MatchPrediction
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 422 {object} map[string]string "Invalid Input"
// @Router /predict [post]
func (h *Handler) PostPredict(w http.ResponseWriter, r *http.Request) {
	var req models.PredictRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	pred, err := h.prediction.Predict(r.Context(), req.Values)
	if err != nil {
		h.predictionError(w, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, pred)
}

// PostPredictBatch scores up to 500 sets of values in one call
// @Summary Predict Match Winners in Batch
// @Tags Prediction
// @Accept json
// @Produce json
// @Param body body models.BatchPredictRequest true "Rows of form values"
// @Success 200 {object} models.BatchPredictions
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 422 {object} map[string]string "Invalid Input"
// @Router /predict/batch [post]
func (h *Handler) PostPredictBatch(w http.ResponseWriter, r *http.Request) {
	var req models.BatchPredictRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	preds, err := h.prediction.PredictBatch(r.Context(), req.RowMaps())
	if err != nil {
		h.predictionError(w, err)
		return
	}

	h.jsonResponse(w, http.StatusOK, models.BatchPredictions{Predictions: preds})
}

// decodeJSON reads and validates a request body, writing the error response
// itself when it returns false.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}

func (h *Handler) predictionError(w http.ResponseWriter, err error) {
	if logic.IsInputError(err) {
		h.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.logger.Errorw("Prediction failed", "error", err)
	h.errorResponse(w, http.StatusInternalServerError, "Failed to predict")
}
