// Package resolverstatus derives the deployment status of GraphQL resolvers
// from their TypeScript declarations and pushes drifted statuses into an
// external tracking database.
//
// # Pipeline
//
// resolverstatus operates in two phases:
//
//  1. Extract: every source file in a directory (non-recursive,
//     lexicographic order) is parsed with tree-sitter. Object literals
//     inside `resolvers` arrays become records carrying a name, a
//     category (admin, api, scheduled), an operation and a status derived
//     from the declared environment flags. Records are merged into a
//     name-keyed registry, later files overwriting earlier ones, and the
//     registry is written as a pretty-printed JSON snapshot.
//
//  2. Reconcile: every record of the tracking database is fetched, matched
//     to a registry entry by name and type label, and its status property
//     is updated only when it differs from the derived status.
//
// # Usage
//
//	e, err := resolverstatus.New(resolverstatus.WithHistory("history.db"))
//	if err != nil { ... }
//	defer e.Close()
//
//	ctx := context.Background()
//	build, err := e.BuildRegistry(ctx, "src/resolvers")
//	err = e.WriteSnapshot("resolver-status.json", build.Registry)
//
//	client := notion.NewClient(notion.Config{Token: token})
//	report, err := e.Reconcile(ctx, client.Database(dbID), build.Registry, "src/resolvers")
//
// # History
//
// With [WithHistory], every extraction and reconciliation is recorded in
// SQLite: the files read and their hashes, the registry produced, and the
// outcome for each tracking record. Extraction logs status drift against
// the previous successful extraction.
package resolverstatus
