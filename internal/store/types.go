package store

import "time"

// Run kinds.
const (
	KindExtract   = "extract"
	KindReconcile = "reconcile"
)

type Run struct {
	ID            string
	Kind          string
	Source        string // source directory or snapshot path
	StartedAt     time.Time
	FinishedAt    *time.Time
	ResolverCount int
	Updated       int
	UpToDate      int
	Skipped       int
	Failed        int
	Error         string
}

type RunFile struct {
	Path          string
	Hash          string
	ResolverCount int
}

type Outcome struct {
	PageID  string
	Name    string
	Type    string
	Outcome string
	From    string
	To      string
	Error   string
}
