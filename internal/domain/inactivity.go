package domain

import (
	"context"
)

//go:generate mockgen -destination mocks/mock_inactivity_scanner.go -package mocks github.com/lumiere-academy/backend/internal/domain InactivityScanner

// ScanResult summarizes one inactivity scan
type ScanResult struct {
	WorkflowsScanned  int `json:"workflows_scanned"`
	ContactsTriggered int `json:"contacts_triggered"`
	ContactsSkipped   int `json:"contacts_skipped"`
	Failures          int `json:"failures"`
}

// InactivityScanner fires inactivity workflows for contacts idle past the trigger threshold
type InactivityScanner interface {
	Scan(ctx context.Context) (*ScanResult, error)
}
