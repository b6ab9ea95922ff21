package tracing

import (
	"context"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	// KeyStatus tags measurements with an outcome (completed, failed, scheduled, ...)
	KeyStatus = tag.MustNewKey("status")
	// KeyTrigger tags measurements with a workflow trigger type
	KeyTrigger = tag.MustNewKey("trigger")

	workflowRuns      = stats.Int64("lumiere/workflow_runs", "Workflow executions that reached a resting state", stats.UnitDimensionless)
	workflowActions   = stats.Int64("lumiere/workflow_actions", "Workflow actions executed", stats.UnitDimensionless)
	inactivityClaims  = stats.Int64("lumiere/inactivity_claims", "Inactivity triggers fired or skipped", stats.UnitDimensionless)
	formSubmissions   = stats.Int64("lumiere/form_submissions", "Accepted form submissions", stats.UnitDimensionless)
	rateLimitRejected = stats.Int64("lumiere/rate_limit_rejected", "Requests rejected by the rate limiter", stats.UnitDimensionless)
)

// AutomationViews aggregate the automation measures as counters
var AutomationViews = []*view.View{
	{Name: "lumiere/workflow_runs_total", Measure: workflowRuns, Aggregation: view.Count(), TagKeys: []tag.Key{KeyStatus}},
	{Name: "lumiere/workflow_actions_total", Measure: workflowActions, Aggregation: view.Count(), TagKeys: []tag.Key{KeyStatus}},
	{Name: "lumiere/inactivity_claims_total", Measure: inactivityClaims, Aggregation: view.Count(), TagKeys: []tag.Key{KeyStatus}},
	{Name: "lumiere/form_submissions_total", Measure: formSubmissions, Aggregation: view.Count()},
	{Name: "lumiere/rate_limit_rejected_total", Measure: rateLimitRejected, Aggregation: view.Count()},
}

func recordWithStatus(ctx context.Context, m *stats.Int64Measure, status string) {
	_ = stats.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(KeyStatus, status)}, m.M(1))
}

// RecordWorkflowRun counts an execution reaching completed, failed or scheduled
func RecordWorkflowRun(ctx context.Context, status string) {
	recordWithStatus(ctx, workflowRuns, status)
}

// RecordWorkflowAction counts one action outcome
func RecordWorkflowAction(ctx context.Context, status string) {
	recordWithStatus(ctx, workflowActions, status)
}

// RecordInactivityClaim counts an inactivity trigger decision (claimed, duplicate, recent)
func RecordInactivityClaim(ctx context.Context, status string) {
	recordWithStatus(ctx, inactivityClaims, status)
}

// RecordFormSubmission counts an accepted form submission
func RecordFormSubmission(ctx context.Context) {
	stats.Record(ctx, formSubmissions.M(1))
}

// RecordRateLimitRejected counts a request refused by the rate limiter
func RecordRateLimitRejected(ctx context.Context) {
	stats.Record(ctx, rateLimitRejected.M(1))
}
