package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/cricketml/prematch/internal/dataset"
	"github.com/cricketml/prematch/internal/form"
	"github.com/cricketml/prematch/internal/logic"
	"github.com/cricketml/prematch/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Navigation entries, in sidebar order.
const (
	navOverview = "Project Overview"
	navDataset  = "Dataset Preview"
	navPredict  = "Predict Match Winner"
)

var pageFiles = map[string]string{
	navOverview: "templates/overview.html",
	navDataset:  "templates/dataset.html",
	navPredict:  "templates/predict.html",
}

type pageData struct {
	Nav     string
	NavList []navItem

	Summary models.DatasetSummary
	Preview models.DatasetPreview

	Fields []form.Field
	Values map[string]string
	Result *models.MatchPrediction
	Error  string
}

type navItem struct {
	Label string
	Path  string
}

var navList = []navItem{
	{Label: navOverview, Path: "/"},
	{Label: navDataset, Path: "/dataset"},
	{Label: navPredict, Path: "/predict"},
}

var pageFuncs = template.FuncMap{
	"missing": dataset.IsMissing,
}

func mustParsePages() map[string]*template.Template {
	pages := make(map[string]*template.Template, len(pageFiles))
	for nav, file := range pageFiles {
		pages[nav] = template.Must(template.New(nav).Funcs(pageFuncs).ParseFS(templateFS, "templates/layout.html", file))
	}
	return pages
}

// Overview renders the project description
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, pageData{Nav: navOverview})
}

// DatasetPage renders the dataset metrics and the first rows
func (h *Handler) DatasetPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, pageData{
		Nav:     navDataset,
		Summary: h.dataset.Summary(),
		Preview: h.dataset.Preview(logic.DefaultPreviewRows),
	})
}

// PredictForm renders the input form with default values
func (h *Handler) PredictForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, pageData{
		Nav:    navPredict,
		Fields: h.dataset.Fields(),
		Values: h.dataset.Defaults(),
	})
}

// PredictSubmit scores the submitted form and renders the result card above it
func (h *Handler) PredictSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, pageData{
			Nav:    navPredict,
			Fields: h.dataset.Fields(),
			Values: h.dataset.Defaults(),
			Error:  "Could not read the submitted form",
		})
		return
	}

	fields := h.dataset.Fields()
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		if v, ok := r.PostForm[f.Column]; ok && len(v) > 0 {
			values[f.Column] = v[0]
		}
	}

	data := pageData{Nav: navPredict, Fields: fields, Values: values}
	pred, err := h.prediction.Predict(r.Context(), values)
	if err != nil {
		if logic.IsInputError(err) {
			data.Error = err.Error()
			h.render(w, http.StatusUnprocessableEntity, data)
			return
		}
		h.logger.Errorw("Prediction failed", "error", err)
		data.Error = "Prediction failed. Please try again."
		h.render(w, http.StatusInternalServerError, data)
		return
	}

	data.Result = pred
	h.render(w, http.StatusOK, data)
}

func (h *Handler) render(w http.ResponseWriter, status int, data pageData) {
	data.NavList = navList
	tmpl, ok := h.pages[data.Nav]
	if !ok {
		h.logger.Errorw("Unknown page", "nav", data.Nav)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Errorw("Failed to render page", "nav", data.Nav, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
