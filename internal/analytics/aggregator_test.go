package analytics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/analytics"
	"github.com/spec-kit/complaint-service/internal/domain"
)

var testNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func complaintAt(created time.Time, status domain.ComplaintStatus) domain.Complaint {
	return domain.Complaint{
		ID:        "c-" + created.Format(time.RFC3339),
		Status:    status,
		StudentID: "student-1",
		CreatedAt: created,
	}
}

func resolvedComplaint(assigneeID, assigneeName string, created time.Time, resolutionHours float64) domain.Complaint {
	resolvedAt := created.Add(time.Duration(resolutionHours * float64(time.Hour)))
	c := complaintAt(created, domain.ComplaintStatusResolved)
	c.AssignedTo = &assigneeID
	c.AssigneeName = assigneeName
	c.ResolvedAt = &resolvedAt
	return c
}

func TestAggregate_ThreeRecordScenario(t *testing.T) {
	records := []domain.Complaint{
		complaintAt(testNow.Add(-1*time.Hour), domain.ComplaintStatusPending),
		resolvedComplaint("staff-x", "Staff X", testNow.Add(-72*time.Hour), 24),
		resolvedComplaint("staff-x", "Staff X", testNow.Add(-96*time.Hour), 48),
	}

	report := analytics.Aggregate(records, testNow, time.UTC)

	assert.Equal(t, 3, report.Summary.TotalComplaints)
	assert.Equal(t, 36, report.Summary.AvgResolutionHours)
	assert.Equal(t, 1, report.Summary.ActiveStaffCount)

	require.Len(t, report.Performance, 1)
	assert.Equal(t, "Staff X", report.Performance[0].AssigneeName)
	assert.Equal(t, 2, report.Performance[0].ResolvedCount)
	assert.Equal(t, 36, report.Performance[0].AvgResolutionHours)

	counts := map[domain.ComplaintStatus]int{}
	for _, sc := range report.Distribution {
		counts[sc.Status] = sc.Count
	}
	assert.Equal(t, 1, counts[domain.ComplaintStatusPending])
	assert.Equal(t, 2, counts[domain.ComplaintStatusResolved])
	assert.Equal(t, 0, counts[domain.ComplaintStatusInProgress])
	assert.Equal(t, 0, counts[domain.ComplaintStatusClosed])
}

func TestAggregate_TrendWindow(t *testing.T) {
	records := []domain.Complaint{
		complaintAt(testNow, domain.ComplaintStatusPending),
		complaintAt(testNow.AddDate(0, 0, -29), domain.ComplaintStatusPending),
		// One day before the window: excluded, never clamped to the edge.
		complaintAt(testNow.AddDate(0, 0, -30), domain.ComplaintStatusPending),
		complaintAt(testNow.AddDate(0, 0, -5), domain.ComplaintStatusClosed),
	}

	report := analytics.Aggregate(records, testNow, time.UTC)

	require.Len(t, report.Trend, analytics.TrendDays)
	assert.Equal(t, 1, report.Trend[0].Count, "oldest bucket holds the 29-days-ago record")
	assert.Equal(t, 1, report.Trend[analytics.TrendDays-1].Count, "newest bucket holds today's record")

	total := 0
	for _, p := range report.Trend {
		total += p.Count
	}
	assert.Equal(t, 3, total, "out-of-window record must not appear anywhere")

	assert.Equal(t, testNow.AddDate(0, 0, -29).Format("Jan 02"), report.Trend[0].Day)
	assert.Equal(t, testNow.Format("Jan 02"), report.Trend[analytics.TrendDays-1].Day)
}

func TestAggregate_EmptyInput(t *testing.T) {
	report := analytics.Aggregate(nil, testNow, time.UTC)

	require.Len(t, report.Trend, analytics.TrendDays)
	for _, p := range report.Trend {
		assert.Zero(t, p.Count)
	}
	require.Len(t, report.Distribution, 4)
	for _, sc := range report.Distribution {
		assert.Zero(t, sc.Count)
	}
	assert.Empty(t, report.Performance)
	assert.Equal(t, analytics.Summary{}, report.Summary)
}

func TestAggregate_UnknownStatusExcludedFromDistribution(t *testing.T) {
	records := []domain.Complaint{
		complaintAt(testNow, domain.ComplaintStatusPending),
		complaintAt(testNow, domain.ComplaintStatus("escalated")),
	}

	report := analytics.Aggregate(records, testNow, time.UTC)

	total := 0
	for _, sc := range report.Distribution {
		total += sc.Count
	}
	assert.Equal(t, 1, total, "unrecognized status occupies no bucket")
	assert.Equal(t, 2, report.Summary.TotalComplaints)
}

func TestAggregate_PerformanceQualification(t *testing.T) {
	assignee := "staff-x"
	resolvedNoTimestamp := complaintAt(testNow.Add(-48*time.Hour), domain.ComplaintStatusResolved)
	resolvedNoTimestamp.AssignedTo = &assignee

	resolvedAt := testNow.Add(-24 * time.Hour)
	resolvedNoAssignee := complaintAt(testNow.Add(-48*time.Hour), domain.ComplaintStatusResolved)
	resolvedNoAssignee.ResolvedAt = &resolvedAt

	closedWithAssignee := resolvedComplaint(assignee, "Staff X", testNow.Add(-48*time.Hour), 12)
	closedWithAssignee.Status = domain.ComplaintStatusClosed

	report := analytics.Aggregate([]domain.Complaint{resolvedNoTimestamp, resolvedNoAssignee, closedWithAssignee}, testNow, time.UTC)

	assert.Empty(t, report.Performance, "only assigned+resolved+timestamped records qualify")
	assert.Equal(t, 0, report.Summary.ActiveStaffCount)
}

func TestAggregate_PerformanceOrderingAndTies(t *testing.T) {
	records := []domain.Complaint{
		resolvedComplaint("staff-a", "Alice", testNow.Add(-50*time.Hour), 10),
		resolvedComplaint("staff-b", "Bob", testNow.Add(-49*time.Hour), 10),
		resolvedComplaint("staff-c", "Cara", testNow.Add(-48*time.Hour), 10),
		resolvedComplaint("staff-c", "Cara", testNow.Add(-47*time.Hour), 20),
	}

	report := analytics.Aggregate(records, testNow, time.UTC)

	require.Len(t, report.Performance, 3)
	assert.Equal(t, "Cara", report.Performance[0].AssigneeName)
	assert.Equal(t, 2, report.Performance[0].ResolvedCount)
	assert.Equal(t, 15, report.Performance[0].AvgResolutionHours)
	// Tied assignees keep input encounter order.
	assert.Equal(t, "Alice", report.Performance[1].AssigneeName)
	assert.Equal(t, "Bob", report.Performance[2].AssigneeName)
}

func TestAggregate_UnresolvableAssigneeName(t *testing.T) {
	report := analytics.Aggregate([]domain.Complaint{
		resolvedComplaint("staff-x", "", testNow.Add(-48*time.Hour), 6),
	}, testNow, time.UTC)

	require.Len(t, report.Performance, 1)
	assert.Equal(t, "Unknown", report.Performance[0].AssigneeName)
}

func TestAggregate_ResolvedThisMonthKeysOnCreatedAt(t *testing.T) {
	// Created last month, resolved this month: not counted.
	lastMonth := resolvedComplaint("staff-x", "Staff X", testNow.AddDate(0, -1, 0), 24*20)
	// Created and resolved this month: counted.
	thisMonth := resolvedComplaint("staff-x", "Staff X", testNow.Add(-48*time.Hour), 12)
	// Created this month but still pending: not counted.
	pending := complaintAt(testNow.Add(-24*time.Hour), domain.ComplaintStatusPending)

	report := analytics.Aggregate([]domain.Complaint{lastMonth, thisMonth, pending}, testNow, time.UTC)

	assert.Equal(t, 1, report.Summary.ResolvedThisMonth)
}

func TestAggregate_AvgResolutionZeroWithoutQualifyingRecords(t *testing.T) {
	report := analytics.Aggregate([]domain.Complaint{
		complaintAt(testNow, domain.ComplaintStatusPending),
		complaintAt(testNow, domain.ComplaintStatusResolved), // no resolvedAt
	}, testNow, time.UTC)

	assert.Equal(t, 0, report.Summary.AvgResolutionHours)
}

func TestAggregate_Deterministic(t *testing.T) {
	records := []domain.Complaint{
		complaintAt(testNow.Add(-2*time.Hour), domain.ComplaintStatusPending),
		resolvedComplaint("staff-a", "Alice", testNow.Add(-72*time.Hour), 30),
		resolvedComplaint("staff-b", "Bob", testNow.Add(-96*time.Hour), 31),
	}

	first := analytics.Aggregate(records, testNow, time.UTC)
	second := analytics.Aggregate(records, testNow, time.UTC)
	assert.Equal(t, first, second)
}
