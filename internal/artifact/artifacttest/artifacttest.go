// Package artifacttest provides a small, fully consistent artifact set for
// tests: a three-tree forest over thirteen features, its encoder, the
// feature-column list and a six-row reference dataset.
package artifacttest

import (
	"bytes"
	"embed"
	"path"
	"testing"

	"github.com/cricketml/prematch/internal/artifact"
	"github.com/cricketml/prematch/internal/dataset"
	"github.com/cricketml/prematch/internal/model"
	"github.com/cricketml/prematch/internal/preprocess"
)

//go:embed testdata
var files embed.FS

const (
	ModelFile    = "ra_model.json"
	EncoderFile  = "encoder.json"
	ColumnsFile  = "model_columns.json"
	DatasetFile  = "real_cric2.csv"
	TargetColumn = "team1_win"
)

// StrongTeam1 favors the first team with 83% confidence.
func StrongTeam1() map[string]string {
	return map[string]string{
		"venue":                 "Mumbai",
		"team1":                 "MI",
		"team2":                 "CSK",
		"toss_winner":           "Team 1",
		"toss_decision_bat":     "Bat",
		"team1_key_player_form": "Excellent",
		"team2_key_player_form": "Poor",
		"team1_recent_wins":     "4",
		"team2_recent_wins":     "1",
	}
}

// NarrowTeam2 favors the second team with 56% confidence.
func NarrowTeam2() map[string]string {
	return map[string]string{
		"venue":                 "Chennai",
		"team1":                 "CSK",
		"team2":                 "KKR",
		"toss_winner":           "Team 1",
		"toss_decision_bat":     "Bowl",
		"team1_key_player_form": "Poor",
		"team2_key_player_form": "Good",
		"team1_recent_wins":     "1",
		"team2_recent_wins":     "3",
	}
}

// Read returns the raw bytes of a fixture file.
func Read(t testing.TB, name string) []byte {
	t.Helper()
	b, err := files.ReadFile(path.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return b
}

// Bundle links the fixture artifacts in memory.
func Bundle(t testing.TB) *artifact.Bundle {
	t.Helper()

	m, err := model.Load(bytes.NewReader(Read(t, ModelFile)))
	if err != nil {
		t.Fatalf("load model fixture: %v", err)
	}
	enc, err := preprocess.LoadEncoder(bytes.NewReader(Read(t, EncoderFile)))
	if err != nil {
		t.Fatalf("load encoder fixture: %v", err)
	}
	cols, err := preprocess.LoadColumns(bytes.NewReader(Read(t, ColumnsFile)))
	if err != nil {
		t.Fatalf("load columns fixture: %v", err)
	}
	frame, err := dataset.LoadCSV(bytes.NewReader(Read(t, DatasetFile)))
	if err != nil {
		t.Fatalf("load dataset fixture: %v", err)
	}

	b, err := artifact.NewBundle(m, enc, cols, frame, TargetColumn)
	if err != nil {
		t.Fatalf("link fixtures: %v", err)
	}
	return b
}
