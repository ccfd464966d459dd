package grid

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workWindow() Window {
	return Window{StartHour: 8, HourCount: 10, HourHeight: 60, MinHeight: 20}
}

func TestPlace(t *testing.T) {
	w := workWindow()

	tests := []struct {
		name    string
		span    Span
		ok      bool
		top     float64
		height  float64
		clipTop bool
		clipBot bool
	}{
		{"inside", Span{"a", 9 * 60, 10 * 60}, true, 60, 60, false, false},
		{"short event gets min height", Span{"b", 9 * 60, 9*60 + 5}, true, 60, 20, false, false},
		{"starts before window", Span{"c", 7 * 60, 9 * 60}, true, 0, 60, true, false},
		{"ends after window", Span{"d", 17 * 60, 20 * 60}, true, 540, 60, false, true},
		{"covers window", Span{"e", 0, 1440}, true, 0, 600, true, true},
		{"ends at window start", Span{"f", 6 * 60, 8 * 60}, false, 0, 0, false, false},
		{"starts at window end", Span{"g", 18 * 60, 19 * 60}, false, 0, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, ok := w.Place(tt.span)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.top, block.Top, 1e-9)
			assert.InDelta(t, tt.height, block.Height, 1e-9)
			assert.Equal(t, tt.clipTop, block.ClippedTop)
			assert.Equal(t, tt.clipBot, block.ClippedBottom)
		})
	}
}

func TestLayoutProperties(t *testing.T) {
	w := workWindow()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		start := rng.Intn(1440)
		end := start + 1 + rng.Intn(1440-start)
		span := Span{ID: "x", StartMinutes: start, EndMinutes: end}

		blocks := w.Layout([]Span{span}, nil)
		clampedStart := max(start, w.StartMinutes())
		clampedEnd := min(end, w.EndMinutes())

		if clampedEnd <= clampedStart {
			assert.Empty(t, blocks, "span %d-%d", start, end)
			continue
		}
		require.Len(t, blocks, 1)
		assert.Less(t, blocks[0].StartMinutes, blocks[0].EndMinutes)
		assert.GreaterOrEqual(t, blocks[0].Height, w.MinHeight)
		assert.GreaterOrEqual(t, blocks[0].Top, 0.0)
	}
}

func TestLayoutPreviewOverride(t *testing.T) {
	w := workWindow()
	spans := []Span{
		{"a", 14 * 60, 14*60 + 30},
		{"b", 10 * 60, 11 * 60},
	}
	previews := map[string]Span{"a": {"a", 14 * 60, 15*60 + 15}}

	blocks := w.Layout(spans, previews)
	require.Len(t, blocks, 2)
	assert.Equal(t, "a", blocks[0].ID)
	assert.True(t, blocks[0].Preview)
	assert.InDelta(t, 75.0, blocks[0].Height, 1e-9)
	assert.False(t, blocks[1].Preview)
}

func TestMinuteAtQuantizesAndClamps(t *testing.T) {
	w := workWindow()

	assert.Equal(t, 8*60, w.MinuteAt(0))
	assert.Equal(t, 8*60, w.MinuteAt(14))
	assert.Equal(t, 8*60+15, w.MinuteAt(15))
	assert.Equal(t, 15*60, w.MinuteAt(7*60+5))
	assert.Equal(t, 7*60+45, w.MinuteAt(-10))

	full := DefaultWindow()
	assert.Equal(t, 0, full.MinuteAt(-500))
	assert.Equal(t, 1425, full.MinuteAt(full.Height()+300))
}

func TestHourAt(t *testing.T) {
	w := workWindow()

	hour, offset := w.HourAt(150)
	assert.Equal(t, 10, hour)
	assert.InDelta(t, 30.0, offset, 1e-9)

	hour, _ = w.HourAt(10_000)
	assert.Equal(t, 17, hour)
}

func TestNowOffset(t *testing.T) {
	w := workWindow()

	y, ok := w.NowOffset(9*60 + 30)
	require.True(t, ok)
	assert.InDelta(t, 90.0, y, 1e-9)

	_, ok = w.NowOffset(7 * 60)
	assert.False(t, ok)
}

func TestWorkingWindow(t *testing.T) {
	w := WorkingWindow(9, 18)
	assert.Equal(t, 8, w.StartHour)
	assert.Equal(t, 11, w.HourCount)

	w = WorkingWindow(0, 24)
	assert.Equal(t, 0, w.StartHour)
	assert.Equal(t, 24, w.HourCount)
}
