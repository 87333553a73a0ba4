package animation

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRange_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	fixed := Range{Min: time.Second, Max: time.Second}
	assert.Equal(t, time.Second, fixed.Random(rng))

	spread := Range{Min: time.Second, Max: 2 * time.Second}
	for i := 0; i < 100; i++ {
		value := spread.Random(rng)
		assert.GreaterOrEqual(t, value, time.Second)
		assert.Less(t, value, 2*time.Second)
	}
}

func TestPattern_CycleDuration(t *testing.T) {
	assert.Equal(t, 16*time.Second, BoxBreathing().CycleDuration())
	assert.Equal(t, 12*time.Second, RelaxedBreathing().CycleDuration())
}

func TestEngine_BreathingCyclesThroughPhases(t *testing.T) {
	engine := New(Config{Pattern: Pattern{
		{Phase: PhaseInhale, Duration: 5 * time.Millisecond},
		{Phase: PhaseExhale, Duration: 5 * time.Millisecond},
	}})
	steps := make(chan Phase, 16)
	engine.SetOnStep(func(step Step) {
		select {
		case steps <- step.Phase:
		default:
		}
	})

	engine.StartBreathing(context.Background())
	defer engine.Stop()

	var seen []Phase
	for len(seen) < 3 {
		select {
		case phase := <-steps:
			seen = append(seen, phase)
		case <-time.After(2 * time.Second):
			t.Fatal("pacer stalled")
		}
	}
	assert.Equal(t, []Phase{PhaseInhale, PhaseExhale, PhaseInhale}, seen)
}

func TestEngine_StopHaltsPrompts(t *testing.T) {
	engine := New(Config{PromptInterval: 5 * time.Millisecond})
	prompts := make(chan string, 64)
	engine.SetOnPrompt(func(prompt string) {
		select {
		case prompts <- prompt:
		default:
		}
	})

	engine.StartPrompts(context.Background(), []string{"roll shoulders", "blink"})
	select {
	case prompt := <-prompts:
		require.Equal(t, "roll shoulders", prompt)
	case <-time.After(2 * time.Second):
		t.Fatal("no prompt delivered")
	}

	engine.Stop()
	time.Sleep(20 * time.Millisecond)
	for len(prompts) > 0 {
		<-prompts
	}
	time.Sleep(30 * time.Millisecond)
	assert.Empty(t, prompts)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "Breathe in", PhaseInhale.String())
	assert.Equal(t, "Breathe out", PhaseExhale.String())
}
