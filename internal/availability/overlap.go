// Package availability computes pairwise and aggregate overlap between
// participant availability windows. All functions are pure: queries run
// interactively during team formation and may be invoked concurrently
// from multiple sessions without coordination.
//
// Coverage uses an interval-sorted sweep, O(n log n) in the number of
// windows, rather than pairwise scanning, since pools can hold tens of
// participants and queries happen on every edit.
package availability

import (
	"sort"
	"time"

	"github.com/akashvibhute/simlane-web-sub000/internal/roster"
)

// Segment is a span of time covered by a constant number of participants.
type Segment struct {
	Start time.Time
	End   time.Time
	Count int
}

// Duration returns the length of the segment.
func (s Segment) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Report aggregates coverage over a set of windows.
type Report struct {
	// Segments are the covered spans in chronological order, each with the
	// number of participants available during it. Uncovered gaps are not
	// listed.
	Segments []Segment

	// Union is the total time covered by at least one participant.
	Union time.Duration

	// Peak is the maximum simultaneous coverage count.
	Peak int

	// NoAvailability lists participant IDs that contributed no qualifying
	// windows. They are flagged here so downstream validation can surface
	// a warning instead of silently ignoring them.
	NoAvailability []string
}

// UnionHours returns the union coverage in fractional hours.
func (r Report) UnionHours() float64 {
	return r.Union.Hours()
}

// CountAt returns how many participants are available at the given instant.
func (r Report) CountAt(t time.Time) int {
	// Segments are sorted; binary search for the one containing t.
	i := sort.Search(len(r.Segments), func(i int) bool {
		return r.Segments[i].End.After(t)
	})
	if i < len(r.Segments) && !t.Before(r.Segments[i].Start) {
		return r.Segments[i].Count
	}
	return 0
}

// boundary is a sweep event: +1 at window start, -1 at window end.
type boundary struct {
	at    time.Time
	delta int
}

// Coverage computes the aggregate coverage of the pool for a target role.
// Participants whose windows never allow the role (or who declared no
// windows at all) are reported in NoAvailability.
func Coverage(pool roster.Pool, role roster.Role) Report {
	var windows []roster.AvailabilityWindow
	var missing []string

	for _, p := range pool {
		qualifying := p.WindowsForRole(role)
		if len(qualifying) == 0 {
			missing = append(missing, p.ID)
			continue
		}
		windows = append(windows, qualifying...)
	}

	report := CoverageOf(windows)
	report.NoAvailability = missing
	return report
}

// CoverageOf computes coverage over an arbitrary window set via a single
// boundary sweep. Empty input yields an empty report, not an error.
func CoverageOf(windows []roster.AvailabilityWindow) Report {
	if len(windows) == 0 {
		return Report{}
	}

	boundaries := make([]boundary, 0, len(windows)*2)
	for _, w := range windows {
		boundaries = append(boundaries,
			boundary{at: w.Start, delta: 1},
			boundary{at: w.End, delta: -1},
		)
	}
	sort.Slice(boundaries, func(i, j int) bool {
		if boundaries[i].at.Equal(boundaries[j].at) {
			// Process ends before starts so touching windows don't produce
			// a zero-length double-counted segment.
			return boundaries[i].delta < boundaries[j].delta
		}
		return boundaries[i].at.Before(boundaries[j].at)
	})

	var report Report
	count := 0
	prev := boundaries[0].at

	for _, b := range boundaries {
		if count > 0 && b.at.After(prev) {
			report.Segments = append(report.Segments, Segment{Start: prev, End: b.at, Count: count})
			report.Union += b.at.Sub(prev)
		}
		count += b.delta
		if count > report.Peak {
			report.Peak = count
		}
		prev = b.at
	}

	report.Segments = mergeAdjacent(report.Segments)
	return report
}

// mergeAdjacent joins touching segments with equal counts.
func mergeAdjacent(segments []Segment) []Segment {
	if len(segments) < 2 {
		return segments
	}
	out := segments[:1]
	for _, s := range segments[1:] {
		last := &out[len(out)-1]
		if last.Count == s.Count && last.End.Equal(s.Start) {
			last.End = s.End
			continue
		}
		out = append(out, s)
	}
	return out
}

// Overlap returns the total time during which both window sets are covered.
// Disjoint sets yield zero, not an error.
func Overlap(a, b []roster.AvailabilityWindow) time.Duration {
	unionA := unionIntervals(a)
	unionB := unionIntervals(b)

	var total time.Duration
	i, j := 0, 0
	for i < len(unionA) && j < len(unionB) {
		start := laterOf(unionA[i].Start, unionB[j].Start)
		end := earlierOf(unionA[i].End, unionB[j].End)
		if start.Before(end) {
			total += end.Sub(start)
		}
		if unionA[i].End.Before(unionB[j].End) {
			i++
		} else {
			j++
		}
	}
	return total
}

// GroupOverlap returns the total time during which the candidate is
// available together with at least one member of the group, considering
// only windows that allow the given role. This is the quantity the
// availability-optimized allocation strategy maximizes.
func GroupOverlap(candidate roster.Participant, group []roster.Participant, role roster.Role) time.Duration {
	var groupWindows []roster.AvailabilityWindow
	for _, member := range group {
		groupWindows = append(groupWindows, member.WindowsForRole(role)...)
	}
	return Overlap(candidate.WindowsForRole(role), groupWindows)
}

// interval is a half-open [Start, End) span.
type interval struct {
	Start time.Time
	End   time.Time
}

// unionIntervals flattens windows into sorted, non-overlapping intervals.
func unionIntervals(windows []roster.AvailabilityWindow) []interval {
	if len(windows) == 0 {
		return nil
	}

	intervals := make([]interval, len(windows))
	for i, w := range windows {
		intervals[i] = interval{Start: w.Start, End: w.End}
	}
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start.Before(intervals[j].Start)
	})

	out := intervals[:1]
	for _, iv := range intervals[1:] {
		last := &out[len(out)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
