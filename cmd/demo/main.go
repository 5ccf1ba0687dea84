package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/spetersoncode/gengate"
	"github.com/spetersoncode/gengate/config"
	"github.com/spetersoncode/gengate/gateway"
	"github.com/spetersoncode/gengate/model"
	"go.uber.org/zap"
)

func main() {
	var (
		primary     string
		fallbacks   []string
		prompt      string
		system      string
		mode        string
		retries     int
		jsonOutput  bool
		showEvents  bool
		interactive bool
	)
	flag.StringVarP(&primary, "model", "m", string(model.ClaudeHaiku45), "Primary model")
	flag.StringSliceVarP(&fallbacks, "fallback", "f", nil, "Fallback models, in order (repeatable or comma-separated)")
	flag.StringVarP(&prompt, "prompt", "p", "", "User prompt (omit for the interactive menu)")
	flag.StringVar(&system, "system", "", "System prompt")
	flag.StringVar(&mode, "mode", "generate", "generate, stream or batch")
	flag.IntVar(&retries, "retries", -1, "Per-model retry budget (-1 uses the configured default)")
	flag.BoolVar(&jsonOutput, "json", false, "Request a JSON object response")
	flag.BoolVar(&showEvents, "events", false, "Print gateway events")
	flag.BoolVarP(&interactive, "interactive", "i", false, "Run the interactive menu")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if !cfg.HasAnyKey() {
		fmt.Println("✗ No API keys found. Set ANTHROPIC_API_KEY, OPENAI_API_KEY, or GEMINI_API_KEY_1..9.")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []gateway.Option{gateway.WithLogger(logger)}
	if showEvents {
		events := make(chan gateway.Event, 128)
		go printEvents(events)
		opts = append(opts, gateway.WithEvents(events))
	}
	gw := gateway.NewFromConfig(cfg, opts...)

	if interactive || prompt == "" {
		runMenu(ctx, gw)
		return
	}

	req, err := buildRequest(primary, fallbacks, system, prompt, retries, jsonOutput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	switch mode {
	case "generate":
		err = runGenerate(ctx, gw, req)
	case "stream":
		err = runStream(ctx, gw, req)
	case "batch":
		err = runBatch(ctx, gw, []*gengate.Request{req, req.WithModel(req.Model)})
	default:
		err = fmt.Errorf("unknown mode %q", mode)
	}
	if err != nil {
		logger.Error("demo failed", zap.String("mode", mode), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildRequest parses flag values into a request.
func buildRequest(primary string, fallbacks []string, system, prompt string, retries int, jsonOutput bool) (*gengate.Request, error) {
	id, err := model.Parse(primary)
	if err != nil {
		return nil, err
	}
	req := &gengate.Request{
		Model:       id,
		System:      system,
		User:        prompt,
		Temperature: 0.7,
	}
	for _, f := range fallbacks {
		fid, err := model.Parse(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		req.Fallbacks = append(req.Fallbacks, fid)
	}
	if retries >= 0 {
		req.MaxRetries = gengate.Retries(retries)
	}
	if jsonOutput {
		req.Format = gengate.FormatJSON
	}
	return req, req.Validate()
}
