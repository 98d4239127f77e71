package resolverstatus

import (
	"github.com/jward/resolverstatus/internal/reconcile"
	"github.com/jward/resolverstatus/internal/resolver"
	"github.com/jward/resolverstatus/internal/store"
)

// Public type aliases for the internal types used in the Engine API.

type Record = resolver.Record
type Registry = resolver.Registry
type Status = resolver.Status
type Change = resolver.Change
type Report = reconcile.Report
type Result = reconcile.Result
type Run = store.Run
type Store = store.Store
