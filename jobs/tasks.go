package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTaxStatsWarmup pre-computes yearly tax aggregates per user.
	TaskTaxStatsWarmup = "tax:stats_warmup"
	// TaskDashboardWarmup pre-computes dashboard stats per user.
	TaskDashboardWarmup = "dashboard:warmup"
)

// TaxStatsWarmupPayload selects the year to warm. Zero means the current year.
type TaxStatsWarmupPayload struct {
	Year int `json:"year"`
}

// NewTaxStatsWarmupTask constructs an Asynq task.
func NewTaxStatsWarmupTask(payload TaxStatsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTaxStatsWarmup, data), nil
}

// NewDashboardWarmupTask constructs an Asynq task.
func NewDashboardWarmupTask() (*asynq.Task, error) {
	return asynq.NewTask(TaskDashboardWarmup, nil), nil
}
