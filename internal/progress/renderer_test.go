package progress

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderBar(t *testing.T) {
	assert.Equal(t, "[..........]", renderBar(0, 10))
	assert.Equal(t, "[#####.....]", renderBar(0.5, 10))
	assert.Equal(t, "[##########]", renderBar(1.5, 10))
	assert.Equal(t, "[..........]", renderBar(-1, 10))
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0:00", formatElapsed(0))
	assert.Equal(t, "1:05", formatElapsed(65*time.Second))
}

func TestBarWidthClamped(t *testing.T) {
	assert.Equal(t, 20, (&BarRenderer{width: 10}).barWidth())
	assert.Equal(t, 60, (&BarRenderer{width: 200}).barWidth())
	assert.Equal(t, 34, (&BarRenderer{width: 50}).barWidth())
}

func TestPlainRendering(t *testing.T) {
	var buf bytes.Buffer
	r := NewBarRenderer(&buf)
	assert.False(t, r.isTTY)

	r.Handle(StepEvent(StageLove, "Reflecting on what you love", 1, 4, time.Now()))
	r.Handle(Event{Stage: StageComplete, Message: "Reflection complete", Ikigai: "You gather people.", SavedTo: "/tmp/x.json"})
	r.Finish()

	out := buf.String()
	assert.Contains(t, out, "[0:00] Reflecting on what you love\n")
	assert.Contains(t, out, "Reflection complete (0:00)")
	assert.Contains(t, out, "Ikigai: You gather people.")
	assert.Contains(t, out, "Saved: /tmp/x.json")
	assert.Equal(t, 1.0, r.lastEvent.Percent)
}

func TestFinishReportsError(t *testing.T) {
	var buf bytes.Buffer
	r := NewBarRenderer(&buf)
	r.Handle(Event{Stage: StageSummary, Message: "Summarizing", Error: errors.New("quota")})
	r.Finish()
	assert.Contains(t, buf.String(), "Error: quota")
}

func TestTTYRenderingOverwrites(t *testing.T) {
	var buf bytes.Buffer
	r := &BarRenderer{out: &buf, start: time.Now(), isTTY: true, width: 36}

	r.Handle(StepEvent(StageGoodAt, "Strengths", 2, 4, time.Now()))
	assert.Contains(t, buf.String(), "[2/4] Strengths")
	assert.Equal(t, 2, r.lines)

	r.Handle(NewEvent(StageSummary, "Summarizing", 0.8, time.Now()))
	assert.Contains(t, buf.String(), "\033[A\033[2K")
	assert.Contains(t, buf.String(), " 80%")
}

func TestStepEventPercent(t *testing.T) {
	assert.Equal(t, 0.0, StepEvent(StageLove, "", 1, 4, time.Now()).Percent)
	assert.InDelta(t, 0.525, StepEvent(StagePaidFor, "", 4, 4, time.Now()).Percent, 1e-9)
}
