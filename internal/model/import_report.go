package model

import (
	"strings"
	"time"
)

// ImportTrigger labels what started an import run.
type ImportTrigger string

const (
	TriggerManual    ImportTrigger = "manual"
	TriggerScheduled ImportTrigger = "scheduled"
	TriggerCLI       ImportTrigger = "cli"
)

// FileOutcome is the per-file result of an import run.
type FileOutcome struct {
	Name         string `json:"name"`
	StudentClass string `json:"student_class,omitempty"`
	Success      int    `json:"success"`
	Errors       int    `json:"errors"`
	Error        string `json:"error,omitempty"`
}

// ImportReport is the outcome of one import run. Lines holds the
// human-readable report in the order it was written.
type ImportReport struct {
	RunID            string        `json:"run_id"`
	Trigger          ImportTrigger `json:"trigger"`
	Directory        string        `json:"directory"`
	DirectoryCreated bool          `json:"directory_created"`
	Deleted          int64         `json:"deleted"`
	FilesFound       int           `json:"files_found"`
	Files            []FileOutcome `json:"files"`
	TotalSuccess     int           `json:"total_success"`
	TotalErrors      int           `json:"total_errors"`
	Fatal            string        `json:"fatal,omitempty"`
	StartedAt        time.Time     `json:"started_at"`
	FinishedAt       time.Time     `json:"finished_at"`
	Lines            []string      `json:"lines"`
}

// Add appends one report line.
func (r *ImportReport) Add(line string) {
	r.Lines = append(r.Lines, line)
}

// Abort records err as the reason the run stopped.
func (r *ImportReport) Abort(err error) {
	r.Fatal = err.Error()
	r.Add("處理過程中發生錯誤: " + err.Error())
}

// Text renders the report as newline-terminated lines.
func (r *ImportReport) Text() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return strings.Join(r.Lines, "\n") + "\n"
}

// ImportEventType distinguishes run lifecycle events.
type ImportEventType string

const (
	ImportEventStarted  ImportEventType = "started"
	ImportEventFinished ImportEventType = "finished"
)

// ImportEvent is published to subscribers when a run starts or finishes.
type ImportEvent struct {
	Type         ImportEventType `json:"type"`
	RunID        string          `json:"run_id"`
	Trigger      ImportTrigger   `json:"trigger"`
	TotalSuccess int             `json:"total_success"`
	TotalErrors  int             `json:"total_errors"`
	Fatal        string          `json:"fatal,omitempty"`
	At           time.Time       `json:"at"`
}
