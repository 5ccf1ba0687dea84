package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spetersoncode/gengate"
	"github.com/spetersoncode/gengate/gateway"
	"github.com/spetersoncode/gengate/model"
)

func runGenerate(ctx context.Context, gw *gateway.Gateway, req *gengate.Request) error {
	res, err := gw.Generate(ctx, req)
	if err != nil {
		return err
	}
	fmt.Println(res.Text)
	printResult(res)
	return nil
}

func runStream(ctx context.Context, gw *gateway.Gateway, req *gengate.Request) error {
	for ev := range gw.GenerateStream(ctx, req) {
		switch ev.Type {
		case gengate.EventChunk:
			fmt.Print(ev.Text)
		case gengate.EventDone:
			fmt.Println()
			printResult(ev.Result)
		case gengate.EventError:
			fmt.Println()
			return ev.Err
		}
	}
	return nil
}

func runBatch(ctx context.Context, gw *gateway.Gateway, reqs []*gengate.Request) error {
	results, err := gw.BatchGenerate(ctx, reqs)
	if err != nil {
		return err
	}
	var total float64
	for i, res := range results {
		fmt.Printf("\n[%d] %s\n", i+1, res.Text)
		printResult(res)
		total += res.Cost
	}
	fmt.Printf("\nBatch cost: $%.6f\n", total)
	return nil
}

// menuItem is one entry of the interactive menu.
type menuItem struct {
	label string
	run   func(ctx context.Context, gw *gateway.Gateway) error
}

var menu = []menuItem{
	{"Generate with fallback", demoFallback},
	{"Stream a story", demoStream},
	{"JSON response", demoJSON},
	{"Cached context blocks", demoCache},
	{"Batch of three taglines", demoBatch},
	{"Key pool stats", demoPoolStats},
}

func runMenu(ctx context.Context, gw *gateway.Gateway) {
	fmt.Println("╔════════════════════════════════════════╗")
	fmt.Println("║      gengate - Generation Gateway      ║")
	fmt.Println("╚════════════════════════════════════════╝")

	for {
		fmt.Println()
		for i, item := range menu {
			fmt.Printf("  [%d] %s\n", i+1, item.label)
		}
		fmt.Printf("Select demo [1-%d, q to quit]: ", len(menu))

		answer, _ := reader.ReadString('\n')
		answer = strings.TrimSpace(answer)
		if answer == "" || answer == "q" {
			return
		}
		n, err := strconv.Atoi(answer)
		if err != nil || n < 1 || n > len(menu) {
			fmt.Println("Invalid selection")
			continue
		}

		item := menu[n-1]
		printHeader(item.label)
		if err := item.run(ctx, gw); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func demoFallback(ctx context.Context, gw *gateway.Gateway) error {
	primary := chooseModel("Primary model")
	return runGenerate(ctx, gw, &gengate.Request{
		Model:     primary,
		Fallbacks: fallbacksFor(primary),
		User:      "Write a one-line tagline for a neighborhood bakery.",
	})
}

func demoStream(ctx context.Context, gw *gateway.Gateway) error {
	return runStream(ctx, gw, &gengate.Request{
		Model:       chooseModel("Model"),
		System:      "You are a children's author.",
		User:        "Tell a four-sentence story about a lighthouse cat.",
		Temperature: 0.9,
	})
}

func demoJSON(ctx context.Context, gw *gateway.Gateway) error {
	return runGenerate(ctx, gw, &gengate.Request{
		Model:  model.GPT4oMini,
		System: "Reply with a JSON object with keys name and slogan.",
		User:   "Invent a coffee brand.",
		Format: gengate.FormatJSON,
	})
}

func demoCache(ctx context.Context, gw *gateway.Gateway) error {
	brand := strings.Repeat("Brand voice: warm, plain, never salesy. Audience: home cooks. ", 200)
	req := &gengate.Request{
		Model:       model.ClaudeHaiku45,
		System:      "You write social posts.",
		CacheBlocks: []string{brand},
		User:        "Write a post about sourdough.",
	}
	for i := range 2 {
		fmt.Printf("\nCall %d:\n", i+1)
		if err := runGenerate(ctx, gw, req); err != nil {
			return err
		}
	}
	return nil
}

func demoBatch(ctx context.Context, gw *gateway.Gateway) error {
	var reqs []*gengate.Request
	for _, topic := range []string{"a bike shop", "a bookstore", "a yoga studio"} {
		reqs = append(reqs, &gengate.Request{
			Model:     model.Gemini25FlashLite,
			Fallbacks: []model.ID{model.GPT4oMini},
			User:      "One-line tagline for " + topic + ".",
		})
	}
	return runBatch(ctx, gw, reqs)
}

func demoPoolStats(_ context.Context, gw *gateway.Gateway) error {
	for family, stats := range gw.PoolStats() {
		fmt.Printf("%s: %d keys, cursor at %d\n", family, stats.Size, stats.Cursor)
		for _, c := range stats.Credentials {
			last := "never"
			if !c.LastUsed.IsZero() {
				last = c.LastUsed.Format("15:04:05")
			}
			fmt.Printf("  #%d  uses=%d  last=%s\n", c.Index, c.Uses, last)
		}
	}
	return nil
}
