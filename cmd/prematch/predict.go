package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cricketml/prematch/internal/artifact"
	"github.com/cricketml/prematch/internal/logic"
)

var predictSet []string

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score one match and print the prediction as JSON",
	Long: `Score one match from the command line.

Every field starts at the value an untouched web form submits. Override
fields with --set, using option labels for select fields:

  prematch predict --set venue=Mumbai --set team1_key_player_form="Very Good"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides, err := parseSet(predictSet)
		if err != nil {
			return err
		}
		bundle, err := artifact.Load(cmd.Context(), artifactOptions(cfg), logger)
		if err != nil {
			return fmt.Errorf("load artifacts: %w", err)
		}
		return runPredict(cmd.Context(), cmd.OutOrStdout(), bundle, overrides, logger)
	},
}

func init() {
	predictCmd.Flags().StringArrayVar(&predictSet, "set", nil, "column=value override (repeatable)")
}

// parseSet splits column=value pairs. Values may contain '='.
func parseSet(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		col, val, ok := strings.Cut(p, "=")
		col = strings.TrimSpace(col)
		if !ok || col == "" {
			return nil, fmt.Errorf("invalid --set %q, expected column=value", p)
		}
		out[col] = val
	}
	return out, nil
}

func runPredict(ctx context.Context, w io.Writer, bundle *artifact.Bundle, overrides map[string]string, log *zap.Logger) error {
	values := bundle.Schema.Defaults()
	for col, v := range overrides {
		if _, ok := bundle.Schema.Field(col); !ok {
			return fmt.Errorf("unknown column %q", col)
		}
		values[col] = v
	}

	pred, err := logic.NewPredictionService(bundle, 1, log).Predict(ctx, values)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(pred)
}
