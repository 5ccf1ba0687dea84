package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spetersoncode/gengate"
	"github.com/spetersoncode/gengate/gateway"
	"github.com/spetersoncode/gengate/model"
)

var reader = bufio.NewReader(os.Stdin)

func printHeader(title string) {
	fmt.Println("\n┌─────────────────────────────────────────┐")
	fmt.Printf("│ %-39s │\n", title)
	fmt.Println("└─────────────────────────────────────────┘")
}

func printResult(res *gengate.Result) {
	if res == nil {
		return
	}
	fmt.Printf("[%s | %d attempts | tokens: %d in, %d out", res.Model, res.Attempts, res.InputTokens, res.OutputTokens)
	if res.CacheWriteTokens > 0 || res.CacheReadTokens > 0 {
		fmt.Printf(" (cache: %d written, %d read)", res.CacheWriteTokens, res.CacheReadTokens)
	}
	fmt.Printf(" | $%.6f | %s]\n", res.Cost, res.Duration.Round(1e6))
}

// chooseModel asks for a model from the enumeration.
func chooseModel(prompt string) model.ID {
	ids := model.All()
	for i, id := range ids {
		fmt.Printf("  [%d] %s (%s)\n", i+1, id, id.Family())
	}
	fmt.Printf("%s [1-%d]: ", prompt, len(ids))

	answer, _ := reader.ReadString('\n')
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 1 || n > len(ids) {
		fmt.Printf("Using %s\n", model.ClaudeHaiku45)
		return model.ClaudeHaiku45
	}
	return ids[n-1]
}

// fallbacksFor returns one model from each other family.
func fallbacksFor(primary model.ID) []model.ID {
	defaults := map[model.Family]model.ID{
		model.FamilyAnthropic: model.ClaudeHaiku45,
		model.FamilyOpenAI:    model.GPT4oMini,
		model.FamilyGoogle:    model.Gemini25Flash,
	}
	var out []model.ID
	for _, f := range []model.Family{model.FamilyAnthropic, model.FamilyOpenAI, model.FamilyGoogle} {
		if f != primary.Family() {
			out = append(out, defaults[f])
		}
	}
	return out
}

func printEvents(events <-chan gateway.Event) {
	for ev := range events {
		switch ev.Type {
		case gateway.EventRetry:
			re := ev.RetryEvent
			switch re.Type {
			case gateway.RetryEventAttemptFailed:
				fmt.Fprintf(os.Stderr, "  ↻ %s attempt %d/%d failed (%s): %v\n", re.Model, re.Attempt, re.MaxAttempts, re.Class, re.Error)
			case gateway.RetryEventRetrying:
				fmt.Fprintf(os.Stderr, "  … retrying %s in %s\n", re.Model, re.Delay)
			case gateway.RetryEventFallback:
				fmt.Fprintf(os.Stderr, "  → falling back from %s to %s\n", re.Model, re.Next)
			}
		case gateway.EventRequestError:
			fmt.Fprintf(os.Stderr, "  ✗ request %s failed after %s\n", ev.RequestID, ev.Duration.Round(1e6))
		}
	}
}
