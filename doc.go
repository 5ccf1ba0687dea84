// Package gengate provides the shared types of the generation gateway: the
// request and result of a generation, stream events, categorized errors and
// the [Adapter] capability each provider family implements.
//
// The gateway itself lives in [github.com/spetersoncode/gengate/gateway] and
// model identifiers in [github.com/spetersoncode/gengate/model].
//
// # Basic Usage
//
// Generate with a fallback chain:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gw := gateway.NewFromConfig(cfg)
//
//	res, err := gw.Generate(ctx, &gengate.Request{
//	    Model:     model.ClaudeHaiku45,
//	    Fallbacks: []model.ID{model.GPT4oMini, model.Gemini25Flash},
//	    System:    "You write product copy.",
//	    User:      "Describe a ceramic mug in one sentence.",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Text, res.Model, res.Cost)
//
// # Streaming
//
// Streams call the primary model only. Every stream ends with exactly one
// [EventDone] or [EventError]:
//
//	for ev := range gw.GenerateStream(ctx, req) {
//	    switch ev.Type {
//	    case gengate.EventChunk:
//	        fmt.Print(ev.Text)
//	    case gengate.EventDone:
//	        fmt.Printf("\n[%d tokens, $%.6f]\n", ev.Result.TokensUsed, ev.Result.Cost)
//	    case gengate.EventError:
//	        log.Print(ev.Err)
//	    }
//	}
//
// # Errors
//
// Provider failures are classified into three categories:
//
//   - [ErrorTransient]: overloads, 5xx responses, timeouts. Retried with backoff.
//   - [ErrorNonRetryable]: authentication, quota and rate-limit rejections. The
//     model is abandoned and the next one in the chain is tried.
//   - [ErrorConfiguration]: a missing credential. Returned immediately.
//
// When every model fails, Generate returns an [*ExhaustedChainError].
//
//	var exhausted *gengate.ExhaustedChainError
//	if errors.As(err, &exhausted) {
//	    log.Printf("tried %v: %v", exhausted.Models, exhausted.Last)
//	}
package gengate
