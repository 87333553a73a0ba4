package animation

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Range defines a duration range with random sampling.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Random returns a random duration within the range.
func (value Range) Random(rng *rand.Rand) time.Duration {
	if value.Max <= value.Min {
		return value.Min
	}
	delta := value.Max - value.Min
	return value.Min + time.Duration(rng.Int63n(int64(delta)))
}

// Config contains pacer timing values.
type Config struct {
	Pattern Pattern

	// PromptInterval spaces exercise prompts during longer breaks.
	PromptInterval time.Duration
	PromptJitter   Range
}

// Engine drives the breathing pacer and the exercise prompts shown on a
// break overlay. Callbacks run on the engine goroutine.
type Engine struct {
	mu       sync.Mutex
	config   Config
	onStep   func(Step)
	onPrompt func(string)
	cancel   context.CancelFunc
	rng      *rand.Rand
}

// New creates a new pacer engine.
func New(config Config) *Engine {
	return &Engine{
		config: config,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// SetOnStep sets the callback fired at the start of every breathing phase.
func (engine *Engine) SetOnStep(handler func(Step)) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.onStep = handler
}

// SetOnPrompt sets the callback fired when the exercise prompt changes.
func (engine *Engine) SetOnPrompt(handler func(string)) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.onPrompt = handler
}

// StartBreathing loops the configured pattern until ctx is done or Stop is
// called.
func (engine *Engine) StartBreathing(ctx context.Context) {
	pattern := engine.config.Pattern
	if len(pattern) == 0 || pattern.CycleDuration() <= 0 {
		return
	}
	engine.start(ctx, func(runCtx context.Context) {
		for {
			for _, step := range pattern {
				engine.notifyStep(step)
				if !sleepWithContext(runCtx, step.Duration) {
					return
				}
			}
		}
	})
}

// StartPrompts cycles through prompts, starting with the first, until ctx is
// done or Stop is called.
func (engine *Engine) StartPrompts(ctx context.Context, prompts []string) {
	if len(prompts) == 0 {
		return
	}
	engine.start(ctx, func(runCtx context.Context) {
		for index := 0; ; index++ {
			engine.notifyPrompt(prompts[index%len(prompts)])
			engine.mu.Lock()
			wait := engine.config.PromptInterval + engine.config.PromptJitter.Random(engine.rng)
			engine.mu.Unlock()
			if !sleepWithContext(runCtx, wait) {
				return
			}
		}
	})
}

// Stop terminates any active animation.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	if engine.cancel != nil {
		engine.cancel()
		engine.cancel = nil
	}
}

func (engine *Engine) start(parent context.Context, run func(context.Context)) {
	engine.mu.Lock()
	if engine.cancel != nil {
		engine.cancel()
	}
	runCtx, cancel := context.WithCancel(parent)
	engine.cancel = cancel
	engine.mu.Unlock()

	go run(runCtx)
}

func (engine *Engine) notifyStep(step Step) {
	engine.mu.Lock()
	handler := engine.onStep
	engine.mu.Unlock()
	if handler != nil {
		handler(step)
	}
}

func (engine *Engine) notifyPrompt(prompt string) {
	engine.mu.Lock()
	handler := engine.onPrompt
	engine.mu.Unlock()
	if handler != nil {
		handler(prompt)
	}
}

func sleepWithContext(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
