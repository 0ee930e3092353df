package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	sched Schedule
	err   error
}

func (s stubSource) Schedule(ctx context.Context, restaurantID int64) (Schedule, error) {
	return s.sched, s.err
}

func window(day time.Weekday, open, close string) Window {
	o, err := ParseClock(open)
	if err != nil {
		panic(err)
	}
	c, err := ParseClock(close)
	if err != nil {
		panic(err)
	}
	return Window{Weekday: day, OpenSecs: o, CloseSecs: c}
}

// at builds a UTC instant on a fixed week; 2024-01-01 is a Monday.
func at(day time.Weekday, clock string) time.Time {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // Monday
	offset := (int(day) - int(time.Monday) + 7) % 7
	secs, err := ParseClock(clock)
	if err != nil {
		panic(err)
	}
	return base.AddDate(0, 0, offset).Add(time.Duration(secs) * time.Second)
}

func evalWith(windows ...Window) *Evaluator {
	m := make(map[time.Weekday]Window, len(windows))
	for _, w := range windows {
		m[w.Weekday] = w
	}
	return &Evaluator{
		Store:      stubSource{sched: Schedule{Windows: m}},
		DefaultLoc: time.UTC,
	}
}

func TestIsOpenBoundaries(t *testing.T) {
	e := evalWith(window(time.Monday, "09:00", "17:00"))

	tests := []struct {
		clock string
		want  bool
	}{
		{"08:59", false},
		{"09:00", true}, // open bound inclusive
		{"12:30", true},
		{"16:59:59", true},
		{"17:00", false}, // close bound exclusive
		{"23:00", false},
	}
	for _, tt := range tests {
		open, err := e.IsOpen(context.Background(), 1, at(time.Monday, tt.clock))
		require.NoError(t, err)
		assert.Equal(t, tt.want, open, "monday %s", tt.clock)
	}
}

func TestIsOpenClosedDay(t *testing.T) {
	e := evalWith(window(time.Monday, "09:00", "17:00"))

	open, err := e.IsOpen(context.Background(), 1, at(time.Tuesday, "12:00"))
	require.NoError(t, err)
	assert.False(t, open, "no window stored for tuesday")
}

func TestIsOpenNoScheduleAtAll(t *testing.T) {
	e := evalWith()
	open, err := e.IsOpen(context.Background(), 1, at(time.Friday, "12:00"))
	require.NoError(t, err)
	assert.False(t, open)
}

func TestIsOpenOvernightWindow(t *testing.T) {
	// Friday 22:00 - 02:00 spills into Saturday's small hours
	e := evalWith(window(time.Friday, "22:00", "02:00"))

	tests := []struct {
		day   time.Weekday
		clock string
		want  bool
	}{
		{time.Friday, "21:59", false},
		{time.Friday, "22:00", true},
		{time.Friday, "23:59:59", true},
		{time.Saturday, "00:00", true},
		{time.Saturday, "01:59:59", true},
		{time.Saturday, "02:00", false},
		{time.Saturday, "22:30", false}, // saturday evening has no window of its own
		{time.Thursday, "23:00", false},
	}
	for _, tt := range tests {
		open, err := e.IsOpen(context.Background(), 1, at(tt.day, tt.clock))
		require.NoError(t, err)
		assert.Equal(t, tt.want, open, "%s %s", tt.day, tt.clock)
	}
}

func TestIsOpenUsesRestaurantTimezone(t *testing.T) {
	m := map[time.Weekday]Window{time.Monday: window(time.Monday, "09:00", "17:00")}
	e := &Evaluator{
		Store:      stubSource{sched: Schedule{Timezone: "America/Sao_Paulo", Windows: m}},
		DefaultLoc: time.UTC,
	}

	// 11:00 UTC on Monday is 08:00 in São Paulo (UTC-3): still closed
	open, err := e.IsOpen(context.Background(), 1, at(time.Monday, "11:00"))
	require.NoError(t, err)
	assert.False(t, open)

	// 12:00 UTC is 09:00 local: open
	open, err = e.IsOpen(context.Background(), 1, at(time.Monday, "12:00"))
	require.NoError(t, err)
	assert.True(t, open)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"09:00", 9 * 3600, false},
		{"16:59:59", 16*3600 + 59*60 + 59, false},
		{"00:00", 0, false},
		{"23:59", 23*3600 + 59*60, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"12", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseWeekday(t *testing.T) {
	d, ok := ParseWeekday("Monday")
	require.True(t, ok)
	assert.Equal(t, time.Monday, d)

	_, ok = ParseWeekday("segunda")
	assert.False(t, ok)
}
