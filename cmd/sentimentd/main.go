package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tsawler/sentiment"
	"github.com/tsawler/sentiment/internal/config"
	"github.com/tsawler/sentiment/internal/logging"
	"github.com/tsawler/sentiment/internal/server"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "sentimentd",
		Short:        "Three-class sentiment prediction for review text",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")

	root.AddCommand(newServeCmd(&configPath), newPredictCmd(&configPath))
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP prediction service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closer, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer closer.Close()

			predictor, err := loadPredictor(cfg, logger)
			if err != nil {
				return err
			}

			gin.SetMode(gin.ReleaseMode)
			srv := server.New(cfg, predictor, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}
}

func newPredictCmd(configPath *string) *cobra.Command {
	var text, csvPath, outPath, chartPath string

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Classify a text or every row of a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (text == "") == (csvPath == "") {
				return errors.New("exactly one of --text or --csv is required")
			}

			cfg, logger, closer, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer closer.Close()

			predictor, err := loadPredictor(cfg, logger)
			if err != nil {
				return err
			}

			if text != "" {
				pred, err := predictor.PredictText(cmd.Context(), text)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), pred.Label)
				return nil
			}
			return predictFile(cmd.Context(), predictor, cfg.TextColumn, csvPath, outPath, chartPath, cmd)
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "text to classify")
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV file to classify")
	cmd.Flags().StringVar(&outPath, "out", "", "write the labelled CSV here instead of stdout")
	cmd.Flags().StringVar(&chartPath, "chart", "", "write the distribution chart PNG here")
	return cmd
}

func predictFile(ctx context.Context, predictor *sentiment.Predictor, column, csvPath, outPath, chartPath string, cmd *cobra.Command) error {
	in, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer in.Close()

	table, err := sentiment.ReadCSV(in)
	if err != nil {
		return err
	}
	result, err := predictor.PredictTable(ctx, table, column)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := result.Table.WriteCSV(out); err != nil {
		return err
	}

	if chartPath != "" {
		if !result.HasChart() {
			return errors.New("no rows could be classified; chart not written")
		}
		if err := os.WriteFile(chartPath, result.Chart, 0o644); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "rows=%d classified=%d skipped=%d\n",
		result.Rows, result.CorpusSize, result.Skipped)
	return nil
}

// setup loads the configuration and opens the logger it describes. The
// returned io.Closer releases the log output.
func setup(configPath string) (config.Config, zerolog.Logger, io.Closer, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, zerolog.Nop(), nil, err
	}
	logger, closer, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	return cfg, logger, closer, err
}

func loadPredictor(cfg config.Config, logger zerolog.Logger) (*sentiment.Predictor, error) {
	model, err := sentiment.ModelFromDisk(cfg.ModelDir)
	if err != nil {
		return nil, fmt.Errorf("loading model from %s: %w", cfg.ModelDir, err)
	}
	logger.Info().Str("model", model.Name).Int("vocabulary", model.Dims()).Msg("model loaded")

	stops, err := sentiment.StopwordsFor(cfg.Stopwords)
	if err != nil {
		return nil, err
	}

	return sentiment.NewPredictor(model,
		sentiment.UsingNormalizer(sentiment.NewNormalizer(sentiment.UsingStopwords(stops))),
		sentiment.WithLogger(logger),
		sentiment.WithPredictionColumn(cfg.PredictionColumn),
		sentiment.WithChartOptions(sentiment.ChartOptions{
			Title:  sentiment.DefaultChartOptions().Title,
			Width:  cfg.Chart.Width,
			Height: cfg.Chart.Height,
		}),
	)
}
