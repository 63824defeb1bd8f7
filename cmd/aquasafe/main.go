package main

import (
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/mr1hm/go-water-safety/internal/config"
	"github.com/mr1hm/go-water-safety/internal/logging"
)

type CLI struct {
	Serve ServeCmd `cmd:"" default:"1" help:"Run the HTTP API and disaster feed ingestion."`
	Train TrainCmd `cmd:"" help:"Fit model weights from recorded training samples."`
	Score ScoreCmd `cmd:"" help:"Score one location and print the assessment as JSON."`
}

func main() {
	_ = godotenv.Load()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("aquasafe"),
		kong.Description("Water safety risk scoring service."),
		kong.UsageOnError(),
	)

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	app := newApp(cfg)
	defer app.Close()

	if err := kctx.Run(app); err != nil {
		app.Close()
		logging.Fatalf("%s failed: %v", kctx.Command(), err)
	}
}
