package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// TrendDays is the fixed length of the daily submission series.
const TrendDays = 30

// dayLabelFormat matches the dashboard axis labels, e.g. "Jan 02".
const dayLabelFormat = "Jan 02"

// unknownAssigneeName is substituted when the display-name join did not
// resolve; name resolution failures never fail the aggregation.
const unknownAssigneeName = "Unknown"

// TrendPoint is one calendar-day bucket in the submission series.
type TrendPoint struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// StatusCount is one bucket of the status histogram.
type StatusCount struct {
	Status domain.ComplaintStatus `json:"status"`
	Count  int                    `json:"count"`
}

// PerformanceRow aggregates resolved work for one assignee.
type PerformanceRow struct {
	AssigneeName       string `json:"assignee_name"`
	ResolvedCount      int    `json:"resolved_count"`
	AvgResolutionHours int    `json:"avg_resolution_hours"`
}

// Summary holds the scalar stats block.
type Summary struct {
	TotalComplaints    int `json:"total_complaints"`
	AvgResolutionHours int `json:"avg_resolution_hours"`
	ResolvedThisMonth  int `json:"resolved_this_month"`
	ActiveStaffCount   int `json:"active_staff_count"`
}

// Report bundles the four admin-dashboard derivations.
type Report struct {
	Trend        []TrendPoint     `json:"trend"`
	Distribution []StatusCount    `json:"distribution"`
	Performance  []PerformanceRow `json:"performance"`
	Summary      Summary          `json:"summary"`
}

type assigneeAccumulator struct {
	name       string
	resolved   int
	totalHours float64
}

// Aggregate computes the full analytics report in one pass over the
// snapshot. The caller has already scoped records (admin sees everything).
// All day and month boundaries are evaluated in loc so bucket edges stay
// consistent for the whole computation; a nil loc means server local time.
// Re-running on an identical snapshot at the same instant yields identical
// output.
func Aggregate(records []domain.Complaint, now time.Time, loc *time.Location) Report {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	windowEnd := startOfDay(now, loc)
	windowStart := windowEnd.AddDate(0, 0, -(TrendDays - 1))

	dayCounts := make(map[string]int, TrendDays)
	statusCounts := make(map[domain.ComplaintStatus]int, len(domain.ComplaintStatuses))
	perAssignee := make(map[string]*assigneeAccumulator)
	assigneeOrder := make([]string, 0)

	var resolvedHoursTotal float64
	resolvedHoursCount := 0
	resolvedThisMonth := 0

	for _, c := range records {
		created := c.CreatedAt.In(loc)
		day := startOfDay(created, loc)

		// Records outside the window drop out here: their day key never
		// matches a bucket. No clamping to the nearest edge.
		if !day.Before(windowStart) && !day.After(windowEnd) {
			dayCounts[dayKey(day)]++
		}

		if c.Status.Valid() {
			statusCounts[c.Status]++
		}

		if c.AssignedTo != nil && c.Status == domain.ComplaintStatusResolved && c.ResolvedAt != nil {
			hours := c.ResolvedAt.Sub(c.CreatedAt).Hours()
			acc, ok := perAssignee[*c.AssignedTo]
			if !ok {
				acc = &assigneeAccumulator{name: c.AssigneeName}
				perAssignee[*c.AssignedTo] = acc
				assigneeOrder = append(assigneeOrder, *c.AssignedTo)
			}
			if acc.name == "" {
				acc.name = c.AssigneeName
			}
			acc.resolved++
			acc.totalHours += hours
		}

		completed := c.Status == domain.ComplaintStatusResolved || c.Status == domain.ComplaintStatusClosed
		if completed && c.ResolvedAt != nil {
			resolvedHoursTotal += c.ResolvedAt.Sub(c.CreatedAt).Hours()
			resolvedHoursCount++
		}

		// resolvedThisMonth keys on createdAt, not resolvedAt. That mirrors
		// the shipped dashboard; whether it should use the resolution date
		// is an open product question, so the behavior is kept verbatim.
		if completed && created.Year() == now.Year() && created.Month() == now.Month() {
			resolvedThisMonth++
		}
	}

	trend := make([]TrendPoint, 0, TrendDays)
	for i := 0; i < TrendDays; i++ {
		day := windowStart.AddDate(0, 0, i)
		trend = append(trend, TrendPoint{
			Day:   day.Format(dayLabelFormat),
			Count: dayCounts[dayKey(day)],
		})
	}

	distribution := make([]StatusCount, 0, len(domain.ComplaintStatuses))
	for _, status := range domain.ComplaintStatuses {
		distribution = append(distribution, StatusCount{Status: status, Count: statusCounts[status]})
	}

	performance := make([]PerformanceRow, 0, len(assigneeOrder))
	for _, id := range assigneeOrder {
		acc := perAssignee[id]
		name := acc.name
		if name == "" {
			name = unknownAssigneeName
		}
		performance = append(performance, PerformanceRow{
			AssigneeName:       name,
			ResolvedCount:      acc.resolved,
			AvgResolutionHours: roundHours(acc.totalHours / float64(acc.resolved)),
		})
	}
	// Descending by resolved count; ties keep encounter order.
	sort.SliceStable(performance, func(i, j int) bool {
		return performance[i].ResolvedCount > performance[j].ResolvedCount
	})

	avgResolution := 0
	if resolvedHoursCount > 0 {
		avgResolution = roundHours(resolvedHoursTotal / float64(resolvedHoursCount))
	}

	return Report{
		Trend:        trend,
		Distribution: distribution,
		Performance:  performance,
		Summary: Summary{
			TotalComplaints:    len(records),
			AvgResolutionHours: avgResolution,
			ResolvedThisMonth:  resolvedThisMonth,
			ActiveStaffCount:   len(performance),
		},
	}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func dayKey(day time.Time) string {
	return day.Format("2006-01-02")
}

func roundHours(hours float64) int {
	return int(math.Round(hours))
}
