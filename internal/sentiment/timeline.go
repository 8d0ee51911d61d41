package sentiment

import (
	"fmt"
	"sort"

	"mastolens/internal/analysis"
)

// Interval selects the time bucket granularity.
type Interval string

const (
	ByHour Interval = "hour"
	ByDay  Interval = "day"
	ByWeek Interval = "week"
)

// OverTime groups scored posts into time buckets of the given interval,
// emitted in chronological order. Each bucket carries its post count and a
// percentage breakdown normalized the same way as the overall figure.
// Fewer than two buckets is returned as-is; presentation of sparse series
// is the caller's concern.
func OverTime(scored []ScoredPost, interval Interval) []analysis.TimeBucket {
	if len(scored) == 0 {
		return []analysis.TimeBucket{}
	}

	ordered := make([]ScoredPost, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	type counts struct{ pos, neu, neg, total int }
	groups := make(map[string]*counts)
	var order []string

	for _, s := range ordered {
		key := periodKey(s, interval)
		g, ok := groups[key]
		if !ok {
			g = &counts{}
			groups[key] = g
			order = append(order, key)
		}
		g.total++
		switch s.Label {
		case Positive:
			g.pos++
		case Negative:
			g.neg++
		default:
			g.neu++
		}
	}

	buckets := make([]analysis.TimeBucket, 0, len(order))
	for _, key := range order {
		g := groups[key]
		buckets = append(buckets, analysis.TimeBucket{
			Period:    key,
			Count:     g.total,
			Sentiment: Percentages(g.pos, g.neu, g.neg),
		})
	}
	return buckets
}

func periodKey(s ScoredPost, interval Interval) string {
	switch interval {
	case ByHour:
		return s.CreatedAt.Format("2006-01-02 15:00")
	case ByWeek:
		year, week := s.CreatedAt.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	default:
		return s.CreatedAt.Format("2006-01-02")
	}
}
