// Package schedule decides whether a restaurant is currently taking orders,
// from its per-weekday operating windows evaluated in its own timezone.
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Window is one weekday's opening hours, bounds in seconds since local
// midnight. CloseSecs <= OpenSecs means the window wraps past midnight and
// belongs to the day it starts (e.g. Friday 22:00-02:00 covers Saturday's
// small hours).
type Window struct {
	Weekday   time.Weekday
	OpenSecs  int
	CloseSecs int
}

// Schedule is a restaurant's full weekly schedule. Days with no entry are
// closed.
type Schedule struct {
	Timezone string
	Windows  map[time.Weekday]Window
}

// Source yields the stored schedule for a restaurant.
type Source interface {
	Schedule(ctx context.Context, restaurantID int64) (Schedule, error)
}

type Evaluator struct {
	Store      Source
	DefaultLoc *time.Location
}

// IsOpen reports whether the restaurant accepts orders at now. The open bound
// is inclusive, the close bound exclusive: a 09:00-17:00 window is open at
// 09:00:00 and closed at 17:00:00.
func (e *Evaluator) IsOpen(ctx context.Context, restaurantID int64, now time.Time) (bool, error) {
	sched, err := e.Store.Schedule(ctx, restaurantID)
	if err != nil {
		return false, err
	}

	loc := e.DefaultLoc
	if sched.Timezone != "" {
		if l, err := time.LoadLocation(sched.Timezone); err == nil {
			loc = l
		}
	}
	if loc == nil {
		loc = time.UTC
	}

	local := now.In(loc)
	tod := local.Hour()*3600 + local.Minute()*60 + local.Second()
	day := local.Weekday()

	if w, ok := sched.Windows[day]; ok {
		if w.CloseSecs > w.OpenSecs {
			if tod >= w.OpenSecs && tod < w.CloseSecs {
				return true, nil
			}
		} else if tod >= w.OpenSecs {
			// overnight window, evening segment
			return true, nil
		}
	}

	// morning spillover of yesterday's overnight window
	yesterday := (day + 6) % 7
	if w, ok := sched.Windows[yesterday]; ok {
		if w.CloseSecs <= w.OpenSecs && tod < w.CloseSecs {
			return true, nil
		}
	}
	return false, nil
}

var dayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func ParseWeekday(name string) (time.Weekday, bool) {
	d, ok := dayNames[strings.ToLower(name)]
	return d, ok
}

// ParseClock converts "HH:MM" or "HH:MM:SS" into seconds since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("bad clock value %q", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("bad clock value %q", s)
		}
		nums[i] = n
	}
	if nums[0] > 23 || nums[1] > 59 || nums[2] > 59 {
		return 0, fmt.Errorf("bad clock value %q", s)
	}
	return nums[0]*3600 + nums[1]*60 + nums[2], nil
}
