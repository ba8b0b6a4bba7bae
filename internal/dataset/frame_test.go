package dataset

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `venue,toss_winner,team1_rank,team1_key_player_form,pitch,team1_win
Mumbai,1,3,60,flat,1
Chennai,0,5,,turning,0
Mumbai,1,NA,80,flat,1
Delhi,0,4,50,,0
`

func loadSample(t *testing.T) *Frame {
	t.Helper()
	f, err := LoadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return f
}

func TestFrameMetrics(t *testing.T) {
	f := loadSample(t)

	rows, cols := f.Shape()
	assert.Equal(t, 4, rows)
	assert.Equal(t, 6, cols)
	// "" in team1_key_player_form, "NA" in team1_rank, "" in pitch
	assert.Equal(t, 3, f.MissingCount())
	assert.Len(t, f.Head(10), 4)
	assert.Len(t, f.Head(2), 2)
	assert.Empty(t, f.Head(-1))
}

func TestFrameColumnStats(t *testing.T) {
	f := loadSample(t)

	numeric, err := f.IsNumeric("team1_rank")
	require.NoError(t, err)
	assert.True(t, numeric)

	numeric, err = f.IsNumeric("venue")
	require.NoError(t, err)
	assert.False(t, numeric)

	mean, err := f.Mean("team1_rank")
	require.NoError(t, err)
	assert.InDelta(t, 4.0, mean, 1e-9)

	venues, err := f.Distinct("venue")
	require.NoError(t, err)
	assert.Equal(t, []string{"Chennai", "Delhi", "Mumbai"}, venues)

	pitches, err := f.Distinct("pitch")
	require.NoError(t, err)
	assert.Equal(t, []string{"flat", "turning"}, pitches)

	_, err = f.Mean("nope")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestFrameAllMissingColumn(t *testing.T) {
	f, err := New([]string{"a"}, [][]string{{""}, {"NaN"}})
	require.NoError(t, err)

	numeric, err := f.IsNumeric("a")
	require.NoError(t, err)
	assert.False(t, numeric)

	mean, err := f.Mean("a")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(mean))
}

func TestFrameDrop(t *testing.T) {
	f := loadSample(t)

	features, err := f.Drop("team1_win")
	require.NoError(t, err)
	assert.Equal(t, []string{"venue", "toss_winner", "team1_rank", "team1_key_player_form", "pitch"}, features.Columns())
	assert.False(t, features.Has("team1_win"))
	assert.True(t, f.Has("team1_win"), "Drop must not modify the source frame")

	_, err = f.Drop("winner")
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestLoadCSVErrors(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""))
	assert.Error(t, err)

	_, err = LoadCSV(strings.NewReader("a,b\n1,2,3\n"))
	assert.Error(t, err)

	_, err = New([]string{"a", "a"}, nil)
	assert.Error(t, err)
}

func TestLoadCSVStripsBOM(t *testing.T) {
	f, err := LoadCSV(strings.NewReader("\ufeffvenue,team1_win\nMumbai,1\n"))
	require.NoError(t, err)
	assert.True(t, f.Has("venue"))
}

type mockQuerier struct {
	QueryFunc func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (m *mockQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return m.QueryFunc(ctx, sql, args...)
}

type mockRows struct {
	pgx.Rows
	fields []pgconn.FieldDescription
	values [][]any
	pos    int
}

func (m *mockRows) FieldDescriptions() []pgconn.FieldDescription { return m.fields }
func (m *mockRows) Next() bool {
	m.pos++
	return m.pos <= len(m.values)
}
func (m *mockRows) Values() ([]any, error) { return m.values[m.pos-1], nil }
func (m *mockRows) Err() error             { return nil }
func (m *mockRows) Close()                 {}

func TestLoadTable(t *testing.T) {
	var gotSQL string
	db := &mockQuerier{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			gotSQL = sql
			return &mockRows{
				fields: []pgconn.FieldDescription{{Name: "venue"}, {Name: "team1_rank"}, {Name: "team1_win"}},
				values: [][]any{
					{"Mumbai", int32(3), true},
					{"Chennai", nil, false},
					{"Delhi", 4.5, true},
				},
			}, nil
		},
	}

	f, err := LoadTable(context.Background(), db, "public.matches")
	require.NoError(t, err)

	assert.Equal(t, `SELECT * FROM "public"."matches"`, gotSQL)
	rows, cols := f.Shape()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 1, f.MissingCount())
	assert.Equal(t, []string{"Mumbai", "3", "1"}, f.Head(1)[0])

	mean, err := f.Mean("team1_rank")
	require.NoError(t, err)
	assert.InDelta(t, 3.75, mean, 1e-9)
}

func TestLoadTableQueryError(t *testing.T) {
	db := &mockQuerier{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
			return nil, errors.New("connection refused")
		},
	}
	_, err := LoadTable(context.Background(), db, "matches")
	assert.Error(t, err)
}
