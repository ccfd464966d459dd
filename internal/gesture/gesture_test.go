package gesture

import (
	"math/rand"
	"testing"
	"time"

	"github.com/Freeeeeet/schedule_grid/internal/tzclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tuesday = tzclock.NewDate(2026, time.October, 13)

func TestStartSelectionBuckets(t *testing.T) {
	tests := []struct {
		offset float64
		want   int
	}{
		{0, 600},
		{14.9, 600},
		{15, 615},
		{44, 630},
		{59.9, 645},
		{75, 645}, // за пределами ячейки
		{-3, 600},
	}

	for _, tt := range tests {
		d := StartSelection(tuesday, 10, tt.offset, 60)
		assert.Equal(t, tt.want, d.Selection.StartMinutes, "offset %v", tt.offset)
		assert.Equal(t, tt.want+15, d.Selection.EndMinutes)
		assert.Equal(t, tt.want, d.AnchorMinutes)
	}
}

func TestClickBecomesOneHourSlot(t *testing.T) {
	sel := StartSelection(tuesday, 10, 16, 60).Release()

	assert.Equal(t, tuesday, sel.Day)
	assert.Equal(t, 615, sel.StartMinutes)
	assert.Equal(t, 60, sel.Duration())
}

func TestClickAtEndOfDayIsClamped(t *testing.T) {
	sel := StartSelection(tuesday, 23, 50, 60).Release()

	assert.Equal(t, 1425, sel.StartMinutes)
	assert.Equal(t, 1440, sel.EndMinutes)
}

func TestDragBothDirections(t *testing.T) {
	d := StartSelection(tuesday, 10, 0, 60)

	down := d.Move(11*60 + 20)
	assert.Equal(t, Selection{Day: tuesday, StartMinutes: 600, EndMinutes: 690}, down.Release())

	up := d.Move(8*60 + 50)
	assert.Equal(t, Selection{Day: tuesday, StartMinutes: 525, EndMinutes: 615}, up.Release())

	// возврат в исходную ячейку - снова клик
	back := down.Move(605)
	assert.Equal(t, 660, back.Release().EndMinutes)
}

func TestSelectionStaysOrderedOnRandomDrags(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 5000; i++ {
		d := StartSelection(tuesday, rng.Intn(24), rng.Float64()*80-10, 60)
		moves := rng.Intn(6)
		for j := 0; j < moves; j++ {
			d = d.Move(rng.Intn(2000) - 300)
		}
		sel := d.Release()

		require.GreaterOrEqual(t, sel.StartMinutes, 0)
		require.Less(t, sel.StartMinutes, sel.EndMinutes)
		require.LessOrEqual(t, sel.EndMinutes, tzclock.MinutesPerDay)
		require.GreaterOrEqual(t, sel.Duration(), 15)
		require.Equal(t, tuesday, sel.Day)
	}
}

func TestResizeBottomEdge(t *testing.T) {
	r := StartResize("ev", tuesday, EdgeBottom, 14*60, 14*60+30)
	assert.False(t, r.Changed())

	// указатель на 15:05 -> квантуется до 15:00, конец 15:15
	r = r.Move(15*60 + 5)
	p := r.Release()
	assert.Equal(t, 14*60, p.StartMinutes)
	assert.Equal(t, 15*60+15, p.EndMinutes)
	assert.True(t, r.Changed())

	// далеко выше начала - держится минимальная длительность
	p = r.Move(6 * 60).Release()
	assert.Equal(t, 14*60, p.StartMinutes)
	assert.Equal(t, 14*60+15, p.EndMinutes)
}

func TestResizeTopEdge(t *testing.T) {
	r := StartResize("ev", tuesday, EdgeTop, 14*60, 15*60)

	p := r.Move(13*60 + 40).Release()
	assert.Equal(t, 13*60+30, p.StartMinutes)
	assert.Equal(t, 15*60, p.EndMinutes)

	p = r.Move(20 * 60).Release()
	assert.Equal(t, 14*60+45, p.StartMinutes)
	assert.Equal(t, 15*60, p.EndMinutes)
}

func TestResizeNeverBelowMinimum(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 5000; i++ {
		start := rng.Intn(96) * 15
		end := start + 15 + rng.Intn(96)*15
		if end > 1440 {
			end = 1440
		}
		if end-start < 15 {
			continue
		}
		edge := EdgeTop
		if rng.Intn(2) == 0 {
			edge = EdgeBottom
		}

		r := StartResize("ev", tuesday, edge, start, end)
		for j := 0; j < 1+rng.Intn(5); j++ {
			r = r.Move(rng.Intn(2000) - 300)
		}
		p := r.Release()
		require.GreaterOrEqual(t, p.EndMinutes-p.StartMinutes, MinDurationMinutes, "%s %d-%d -> %+v", edge, start, end, p)
		if edge == EdgeBottom {
			require.Equal(t, start, p.StartMinutes)
		} else {
			require.Equal(t, end, p.EndMinutes)
		}
	}
}
