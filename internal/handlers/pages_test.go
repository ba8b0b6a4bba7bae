package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cricketml/prematch/internal/form"
	"github.com/cricketml/prematch/internal/logic"
	"github.com/cricketml/prematch/internal/models"
)

func TestPages_Render(t *testing.T) {
	tests := []struct {
		name     string
		handler  func(h *Handler) http.HandlerFunc
		contains []string
	}{
		{
			name:     "Overview",
			handler:  func(h *Handler) http.HandlerFunc { return h.Overview },
			contains: []string{"About the Project", "Random Forest Classifier", "OneHotEncoder"},
		},
		{
			name:    "Dataset",
			handler: func(h *Handler) http.HandlerFunc { return h.DatasetPage },
			contains: []string{
				"Dataset Preview",
				`<div class="label">Missing Values</div><div class="value">1</div>`,
				"<th>team1_win</th>",
				`<td class="missing">None</td>`,
			},
		},
		{
			name:    "Predict Form",
			handler: func(h *Handler) http.HandlerFunc { return h.PredictForm },
			contains: []string{
				`<select id="venue" name="venue">`,
				`<option selected>Chennai</option>`,
				`name="team1_recent_wins" value="3"`,
				"Predict Winner",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(nil, nil, nil)

			w := httptest.NewRecorder()
			tt.handler(h)(w, httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			assert.Contains(t, body, "Cricket Pre Match Winner Prediction")
			for _, want := range tt.contains {
				assert.Contains(t, body, want)
			}
		})
	}
}

func submit(h *Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.PredictSubmit(w, req)
	return w
}

func TestPredictSubmit_ResultCard(t *testing.T) {
	tests := []struct {
		name     string
		pred     *models.MatchPrediction
		contains []string
		absent   string
	}{
		{
			name:     "First Team",
			pred:     &models.MatchPrediction{Label: 1, Winner: "Team 1", Confidence: 83, Strength: models.StrengthHigh},
			contains: []string{`class="card win"`, "TEAM 1 WILL WIN", "83% Confidence", "High"},
			absent:   "TEAM 2 WILL WIN",
		},
		{
			name:     "Second Team",
			pred:     &models.MatchPrediction{Label: 0, Winner: "Team 2", Confidence: 56, Strength: models.StrengthModerate},
			contains: []string{`class="card lose"`, "TEAM 2 WILL WIN", "56% Confidence", "Moderate"},
			absent:   "TEAM 1 WILL WIN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]string
			h := newTestHandler(&MockPredictionService{
				PredictFunc: func(ctx context.Context, v map[string]string) (*models.MatchPrediction, error) {
					got = v
					return tt.pred, nil
				},
			}, nil, nil)

			w := submit(h, url.Values{"venue": {"Mumbai"}, "team1_recent_wins": {"5"}, "stray": {"x"}})

			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, map[string]string{"venue": "Mumbai", "team1_recent_wins": "5"}, got)

			body := w.Body.String()
			for _, want := range tt.contains {
				assert.Contains(t, body, want)
			}
			assert.NotContains(t, body, tt.absent)
			// Submitted values stay selected.
			assert.Contains(t, body, `<option selected>Mumbai</option>`)
		})
	}
}

func TestPredictSubmit_Errors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		message        string
	}{
		{
			name:           "Input Error",
			err:            &logic.InputError{Err: form.ErrInvalidChoice},
			expectedStatus: http.StatusUnprocessableEntity,
			message:        "invalid choice",
		},
		{
			name:           "Non-finite Number",
			err:            &logic.InputError{Err: form.ErrNotNumeric},
			expectedStatus: http.StatusUnprocessableEntity,
			message:        "value is not numeric",
		},
		{
			name:           "Internal Error",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			message:        "Prediction failed. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&MockPredictionService{
				PredictFunc: func(ctx context.Context, v map[string]string) (*models.MatchPrediction, error) {
					return nil, tt.err
				},
			}, nil, nil)

			w := submit(h, url.Values{"venue": {"Mumbai"}, "team1_recent_wins": {"NaN"}})

			assert.Equal(t, tt.expectedStatus, w.Code)
			body := w.Body.String()
			assert.Contains(t, body, tt.message)
			assert.NotContains(t, body, "WILL WIN", "no result card on error")
		})
	}
}
