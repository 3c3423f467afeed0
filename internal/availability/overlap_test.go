package availability

import (
	"testing"
	"time"

	"github.com/akashvibhute/simlane-web-sub000/internal/roster"
)

var base = time.Date(2026, time.June, 13, 8, 0, 0, 0, time.UTC)

func win(pid string, startHour, endHour float64, roles ...roster.Role) roster.AvailabilityWindow {
	return roster.AvailabilityWindow{
		ParticipantID: pid,
		Start:         base.Add(time.Duration(startHour * float64(time.Hour))),
		End:           base.Add(time.Duration(endHour * float64(time.Hour))),
		Roles:         roles,
	}
}

func TestCoverageOfEmpty(t *testing.T) {
	report := CoverageOf(nil)

	if report.Union != 0 {
		t.Errorf("Union = %v, want 0", report.Union)
	}
	if report.Peak != 0 {
		t.Errorf("Peak = %v, want 0", report.Peak)
	}
	if len(report.Segments) != 0 {
		t.Errorf("Segments = %v, want none", report.Segments)
	}
}

func TestCoverageOfDisjointWindows(t *testing.T) {
	report := CoverageOf([]roster.AvailabilityWindow{
		win("p-1", 0, 2),
		win("p-2", 4, 6),
	})

	if report.Union != 4*time.Hour {
		t.Errorf("Union = %v, want 4h", report.Union)
	}
	if report.Peak != 1 {
		t.Errorf("Peak = %d, want 1", report.Peak)
	}
	if len(report.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(report.Segments))
	}
	// The 2h gap between windows must not appear as a segment.
	if report.Segments[0].End != base.Add(2*time.Hour) {
		t.Errorf("first segment ends at %v, want %v", report.Segments[0].End, base.Add(2*time.Hour))
	}
	if report.Segments[1].Start != base.Add(4*time.Hour) {
		t.Errorf("second segment starts at %v, want %v", report.Segments[1].Start, base.Add(4*time.Hour))
	}
}

func TestCoverageOfOverlappingWindows(t *testing.T) {
	report := CoverageOf([]roster.AvailabilityWindow{
		win("p-1", 0, 4),
		win("p-2", 2, 6),
		win("p-3", 3, 5),
	})

	if report.Union != 6*time.Hour {
		t.Errorf("Union = %v, want 6h", report.Union)
	}
	if report.Peak != 3 {
		t.Errorf("Peak = %d, want 3", report.Peak)
	}
	if got := report.CountAt(base.Add(3*time.Hour + 30*time.Minute)); got != 3 {
		t.Errorf("CountAt(3.5h) = %d, want 3", got)
	}
	if got := report.CountAt(base.Add(1 * time.Hour)); got != 1 {
		t.Errorf("CountAt(1h) = %d, want 1", got)
	}
	if got := report.CountAt(base.Add(7 * time.Hour)); got != 0 {
		t.Errorf("CountAt(7h) = %d, want 0", got)
	}
}

// Coverage of disjoint windows from one participant never exceeds the sum
// of window durations.
func TestCoverageUnionBound(t *testing.T) {
	windows := []roster.AvailabilityWindow{
		win("p-1", 0, 1.5),
		win("p-1", 2, 3),
		win("p-1", 5, 9),
	}

	var sum time.Duration
	for _, w := range windows {
		sum += w.Duration()
	}

	report := CoverageOf(windows)
	if report.Union > sum {
		t.Errorf("Union %v exceeds sum of window durations %v", report.Union, sum)
	}
	if report.Union != sum {
		t.Errorf("disjoint windows should cover exactly %v, got %v", sum, report.Union)
	}
	if report.Peak != 1 {
		t.Errorf("Peak = %d, want 1 for one participant", report.Peak)
	}
}

func TestCoverageTouchingWindowsMerge(t *testing.T) {
	report := CoverageOf([]roster.AvailabilityWindow{
		win("p-1", 0, 2),
		win("p-2", 2, 4),
	})

	if report.Peak != 1 {
		t.Errorf("Peak = %d, want 1 for back-to-back windows", report.Peak)
	}
	if len(report.Segments) != 1 {
		t.Fatalf("touching equal-count segments should merge, got %d", len(report.Segments))
	}
	if report.Segments[0].Duration() != 4*time.Hour {
		t.Errorf("merged segment = %v, want 4h", report.Segments[0].Duration())
	}
}

func TestCoverageFlagsNoAvailability(t *testing.T) {
	pool := roster.Pool{
		{ID: "p-1", Windows: []roster.AvailabilityWindow{win("p-1", 0, 4, roster.RoleDrive)}},
		{ID: "p-2"}, // no windows at all
		{ID: "p-3", Windows: []roster.AvailabilityWindow{win("p-3", 0, 4, roster.RoleSpot)}},
	}

	report := Coverage(pool, roster.RoleDrive)

	if report.Union != 4*time.Hour {
		t.Errorf("Union = %v, want 4h", report.Union)
	}
	if len(report.NoAvailability) != 2 {
		t.Fatalf("NoAvailability = %v, want p-2 and p-3", report.NoAvailability)
	}
}

func TestOverlapPairwise(t *testing.T) {
	tests := []struct {
		name string
		a    []roster.AvailabilityWindow
		b    []roster.AvailabilityWindow
		want time.Duration
	}{
		{
			name: "partial overlap",
			a:    []roster.AvailabilityWindow{win("a", 0, 4)},
			b:    []roster.AvailabilityWindow{win("b", 2, 6)},
			want: 2 * time.Hour,
		},
		{
			name: "no overlap",
			a:    []roster.AvailabilityWindow{win("a", 0, 2)},
			b:    []roster.AvailabilityWindow{win("b", 3, 5)},
			want: 0,
		},
		{
			name: "containment",
			a:    []roster.AvailabilityWindow{win("a", 0, 8)},
			b:    []roster.AvailabilityWindow{win("b", 2, 4)},
			want: 2 * time.Hour,
		},
		{
			name: "multiple fragments",
			a:    []roster.AvailabilityWindow{win("a", 0, 3), win("a", 5, 8)},
			b:    []roster.AvailabilityWindow{win("b", 2, 6)},
			want: 2 * time.Hour,
		},
		{
			name: "empty side",
			a:    nil,
			b:    []roster.AvailabilityWindow{win("b", 0, 4)},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlap(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlap = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGroupOverlap(t *testing.T) {
	candidate := roster.Participant{
		ID:      "p-new",
		Windows: []roster.AvailabilityWindow{win("p-new", 2, 6, roster.RoleDrive)},
	}
	group := []roster.Participant{
		{ID: "p-1", Windows: []roster.AvailabilityWindow{win("p-1", 0, 3, roster.RoleDrive)}},
		{ID: "p-2", Windows: []roster.AvailabilityWindow{win("p-2", 4, 8, roster.RoleDrive)}},
	}

	// Candidate overlaps p-1 during 2-3h and p-2 during 4-6h.
	if got := GroupOverlap(candidate, group, roster.RoleDrive); got != 3*time.Hour {
		t.Errorf("GroupOverlap = %v, want 3h", got)
	}

	// Role filter excludes windows that do not allow the role.
	if got := GroupOverlap(candidate, group, roster.RoleSpot); got != 0 {
		t.Errorf("GroupOverlap for spot = %v, want 0", got)
	}
}
