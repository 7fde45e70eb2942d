package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/k0kubun/go-ansi"
	"github.com/mixmateai/mixmate/config"
	"github.com/mixmateai/mixmate/internal/audio"
	"github.com/mixmateai/mixmate/internal/domain"
	"github.com/mixmateai/mixmate/internal/mashup"
	"github.com/mixmateai/mixmate/internal/planner"
	"github.com/mixmateai/mixmate/internal/recommend"
	"github.com/schollz/progressbar/v3"
)

func main() {
	configPath := flag.String("config", "./config/config.yaml", "Path to the configuration file")
	prompt := flag.String("prompt", "", "Describe the mashup to create")
	planPath := flag.String("plan", "", "Render a plan JSON file instead of asking the model")
	out := flag.String("out", "", "Output file (default <output_dir>/mashup_output.mp3)")
	song := flag.String("recommend", "", "Print songs similar to this title")
	topN := flag.Int("top-n", 0, "Number of recommendations (default from config)")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(cfg.LogLevel)})))

	switch {
	case *song != "":
		n := *topN
		if n <= 0 {
			n = cfg.Recommender.TopN
		}
		if err := printRecommendations(cfg.Recommender.DatasetPath, *song, n); err != nil {
			log.Fatal(err)
		}
	case *prompt != "" || *planPath != "":
		outputPath := *out
		if outputPath == "" {
			outputPath = filepath.Join(cfg.Storage.OutputDir, "mashup_output.mp3")
		}
		path, err := createMashup(context.Background(), cfg, *prompt, *planPath, outputPath)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("\nMashup written to %s\n", path)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func printRecommendations(datasetPath, title string, topN int) error {
	index, err := recommend.Load(datasetPath)
	if err != nil {
		return err
	}
	recs, err := index.Recommend(title, topN)
	if err != nil {
		return err
	}
	for i, r := range recs {
		fmt.Printf("%d. %s\n", i+1, r)
	}
	return nil
}

func createMashup(ctx context.Context, cfg *config.Config, prompt, planPath, outputPath string) (string, error) {
	plan, err := loadPlan(ctx, cfg, prompt, planPath)
	if err != nil {
		return "", err
	}

	var bar *progressbar.ProgressBar
	progress := func(done, total int, message string) {
		if bar == nil {
			bar = progressbar.NewOptions(
				total,
				progressbar.OptionSetWriter(ansi.NewAnsiStdout()),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionSetTheme(progressbar.ThemeASCII),
				progressbar.OptionFullWidth(),
				progressbar.OptionShowCount(),
			)
		}
		bar.Describe("[cyan][2/2][reset] " + message)
		bar.Set(done)
	}

	executor := mashup.NewExecutor(
		cfg.Assets.Dir,
		audio.NewFFMPEGEngine(),
		mashup.WithBitrate(cfg.Mashup.Bitrate),
		mashup.WithProgress(progress),
	)
	return executor.Execute(ctx, plan, outputPath)
}

func loadPlan(ctx context.Context, cfg *config.Config, prompt, planPath string) (*domain.MashupPlan, error) {
	if planPath != "" {
		data, err := os.ReadFile(planPath)
		if err != nil {
			return nil, err
		}
		return planner.ParsePlan(string(data))
	}

	fmt.Println("[1/2] Asking the model for a mashup plan...")
	requester := planner.NewRequester(planner.NewOllamaClient(cfg.Ollama))
	return requester.RequestPlan(ctx, prompt)
}
