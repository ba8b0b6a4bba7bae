// Package artifact loads the trained model, its encoder, the feature-column
// list and the reference dataset once at process start.
package artifact

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cricketml/prematch/internal/dataset"
	"github.com/cricketml/prematch/internal/form"
	"github.com/cricketml/prematch/internal/model"
	"github.com/cricketml/prematch/internal/preprocess"
)

// Options locates the artifacts.
type Options struct {
	ModelPath    string
	EncoderPath  string
	ColumnsPath  string
	DatasetPath  string
	TargetColumn string

	// When PostgresURL is set the dataset is read from Table instead of DatasetPath.
	PostgresURL string
	Table       string
}

// Bundle is the read-only set of artifacts shared by every request.
type Bundle struct {
	Model          model.Classifier
	Encoder        *preprocess.Encoder
	FeatureColumns []string
	Dataset        *dataset.Frame
	// Features is Dataset without the target column.
	Features     *dataset.Frame
	Aligner      *preprocess.Aligner
	Schema       *form.Schema
	TargetColumn string
	LoadedAt     time.Time
}

// Load reads all artifacts concurrently and cross-checks them. Any failure
// aborts the whole load.
func Load(ctx context.Context, opts Options, logger *zap.Logger) (*Bundle, error) {
	log := logger.Sugar()
	start := time.Now()

	b := &Bundle{TargetColumn: opts.TargetColumn}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		m, err := model.LoadFile(opts.ModelPath)
		if err != nil {
			return fmt.Errorf("load model: %w", err)
		}
		b.Model = m
		return nil
	})
	g.Go(func() error {
		enc, err := preprocess.LoadEncoderFile(opts.EncoderPath)
		if err != nil {
			return fmt.Errorf("load encoder: %w", err)
		}
		b.Encoder = enc
		return nil
	})
	g.Go(func() error {
		cols, err := preprocess.LoadColumnsFile(opts.ColumnsPath)
		if err != nil {
			return fmt.Errorf("load feature columns: %w", err)
		}
		b.FeatureColumns = cols
		return nil
	})
	g.Go(func() error {
		frame, err := loadDataset(gctx, opts)
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
		b.Dataset = frame
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := b.link(); err != nil {
		return nil, err
	}
	b.LoadedAt = time.Now()

	rows, cols := b.Dataset.Shape()
	log.Infow("Artifacts loaded",
		"features", len(b.FeatureColumns),
		"encoderOutputs", len(b.Encoder.FeatureNamesOut()),
		"datasetRows", rows,
		"datasetColumns", cols,
		"duration", time.Since(start),
	)
	if unmatched := b.Aligner.Unmatched(); len(unmatched) > 0 {
		log.Warnw("Feature columns never produced by the encoder; they will always be 0",
			"columns", unmatched)
	}
	return b, nil
}

// link derives the dependent pieces and checks the artifacts agree.
func (b *Bundle) link() error {
	if n := b.Model.NumFeatures(); n != len(b.FeatureColumns) {
		return fmt.Errorf("model expects %d features but the column list has %d", n, len(b.FeatureColumns))
	}

	features, err := b.Dataset.Drop(b.TargetColumn)
	if err != nil {
		return fmt.Errorf("target column: %w", err)
	}
	b.Features = features

	for _, c := range b.Encoder.InputColumns() {
		if !features.Has(c) {
			return fmt.Errorf("encoder reads column %q which the dataset does not have", c)
		}
	}

	schema, err := form.Build(features)
	if err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	b.Schema = schema
	b.Aligner = preprocess.NewAligner(b.Encoder.FeatureNamesOut(), b.FeatureColumns)
	return nil
}

func loadDataset(ctx context.Context, opts Options) (*dataset.Frame, error) {
	if opts.PostgresURL == "" {
		return dataset.LoadCSVFile(opts.DatasetPath)
	}

	pool, err := pgxpool.New(ctx, opts.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	return dataset.LoadTable(ctx, pool, opts.Table)
}

// NewBundle links already-loaded artifacts. It is used by tests and tools
// that build artifacts in memory.
func NewBundle(m model.Classifier, enc *preprocess.Encoder, columns []string, frame *dataset.Frame, target string) (*Bundle, error) {
	b := &Bundle{
		Model:          m,
		Encoder:        enc,
		FeatureColumns: columns,
		Dataset:        frame,
		TargetColumn:   target,
	}
	if err := b.link(); err != nil {
		return nil, err
	}
	b.LoadedAt = time.Now()
	return b, nil
}
