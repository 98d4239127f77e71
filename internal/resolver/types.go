// Package resolver holds the resolver data model shared by extraction and
// reconciliation: categories, operations, deployment statuses, the
// name-keyed Registry and its JSON snapshot form.
package resolver

// Category classifies who a resolver serves.
type Category string

const (
	CategoryAdmin     Category = "admin"
	CategoryAPI       Category = "api"
	CategoryScheduled Category = "scheduled"
	CategoryUnknown   Category = "unknown"
)

// Operation is the request-handling kind of a resolver.
type Operation string

const (
	OperationMutation     Operation = "mutation"
	OperationQuery        Operation = "query"
	OperationSubscription Operation = "subscription"
	OperationTask         Operation = "task"
	OperationUnknown      Operation = "unknown"
)

// Status is a deployment status from the tracking database's vocabulary.
type Status string

const (
	StatusDeployedProd  Status = "Deployed to Prod"
	StatusDeployedStage Status = "Deployed to Stage"
	StatusDeployedDev   Status = "Deployed to Dev"
	StatusCodeComplete  Status = "Code Complete"
	StatusInProgress    Status = "In Progress"
)

// Record is one extracted resolver. The JSON form is the snapshot
// interchange format; category is stored under "type".
type Record struct {
	Name      string    `json:"name"`
	Category  Category  `json:"type"`
	Operation Operation `json:"operation"`
	Status    Status    `json:"status"`

	// Source is the file the record was extracted from. Not persisted in
	// the snapshot.
	Source string `json:"-"`
}

// Registry maps resolver names to records.
type Registry map[string]Record

// Put inserts rec, replacing any record with the same name. The replaced
// record is returned when there was one.
func (r Registry) Put(rec Record) (Record, bool) {
	prev, ok := r[rec.Name]
	r[rec.Name] = rec
	return prev, ok
}

// Lookup returns the record registered under name.
func (r Registry) Lookup(name string) (Record, bool) {
	rec, ok := r[name]
	return rec, ok
}
