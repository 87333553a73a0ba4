package sqlite

import (
	"context"
	"fmt"
	"time"

	"screenbreak/internal/core/schedule"
)

// Counts tallies resolved breaks of one kind.
type Counts struct {
	Taken   int
	Skipped int
}

// DayTotal is the number of breaks taken on one day, by kind.
type DayTotal struct {
	Date  schedule.Date
	Taken map[schedule.BreakKind]int
}

// TotalTaken sums the day's taken breaks.
func (day DayTotal) TotalTaken() int {
	total := 0
	for _, count := range day.Taken {
		total += count
	}
	return total
}

// Summary aggregates the statistics shown to the user.
type Summary struct {
	Today    map[schedule.BreakKind]Counts
	Lifetime map[schedule.BreakKind]Counts
	// History holds one entry per day, oldest first, ending today.
	History []DayTotal
	// Streak counts consecutive days with at least one taken break, ending
	// today or, if nothing was taken yet today, yesterday.
	Streak int
}

// Summary computes statistics as of now, with days entries of history.
func (s *Store) Summary(ctx context.Context, now time.Time, days int) (Summary, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT day, kind, outcome, COUNT(*) FROM breaks GROUP BY day, kind, outcome`)
	if err != nil {
		return Summary{}, fmt.Errorf("query break totals: %w", err)
	}
	defer rows.Close()

	summary := Summary{
		Today:    make(map[schedule.BreakKind]Counts),
		Lifetime: make(map[schedule.BreakKind]Counts),
	}
	today := schedule.DateOf(now).String()
	takenByDay := make(map[string]map[schedule.BreakKind]int)

	for rows.Next() {
		var day, kind, outcome string
		var count int
		if err := rows.Scan(&day, &kind, &outcome, &count); err != nil {
			return Summary{}, fmt.Errorf("scan break totals: %w", err)
		}
		breakKind := schedule.BreakKind(kind)

		addCount(summary.Lifetime, breakKind, schedule.Outcome(outcome), count)
		if day == today {
			addCount(summary.Today, breakKind, schedule.Outcome(outcome), count)
		}
		if schedule.Outcome(outcome) == schedule.OutcomeTaken {
			if takenByDay[day] == nil {
				takenByDay[day] = make(map[schedule.BreakKind]int)
			}
			takenByDay[day][breakKind] += count
		}
	}
	if err := rows.Err(); err != nil {
		return Summary{}, fmt.Errorf("iterate break totals: %w", err)
	}

	for offset := days - 1; offset >= 0; offset-- {
		date := schedule.DateOf(now.AddDate(0, 0, -offset))
		taken := takenByDay[date.String()]
		if taken == nil {
			taken = make(map[schedule.BreakKind]int)
		}
		summary.History = append(summary.History, DayTotal{Date: date, Taken: taken})
	}

	summary.Streak = streak(takenByDay, now)
	return summary, nil
}

func addCount(totals map[schedule.BreakKind]Counts, kind schedule.BreakKind, outcome schedule.Outcome, count int) {
	counts := totals[kind]
	switch outcome {
	case schedule.OutcomeTaken:
		counts.Taken += count
	case schedule.OutcomeSkipped:
		counts.Skipped += count
	}
	totals[kind] = counts
}

func streak(takenByDay map[string]map[schedule.BreakKind]int, now time.Time) int {
	active := func(day time.Time) bool {
		for _, count := range takenByDay[schedule.DateOf(day).String()] {
			if count > 0 {
				return true
			}
		}
		return false
	}

	day := now
	if !active(day) {
		day = day.AddDate(0, 0, -1)
	}
	count := 0
	for active(day) {
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}
