// Package journal keeps an audit trail of route computations.
//
// Each FindPath outcome becomes an Entry: request id, route id, endpoint
// kinds, status, engine status code and latency. Entries are written
// asynchronously by a Recorder into SQLite, through either the cgo driver
// (mattn/go-sqlite3, "sqlite3") or the pure Go one (modernc.org/sqlite,
// "sqlite").
//
// # Retention
//
// A Pruner deletes entries older than RetentionDays; a Scheduler runs it on
// a cron expression:
//
//	pruner := journal.NewPruner(store, journal.RetentionConfig{
//	    RetentionDays: 30,
//	    PruneSchedule: "0 3 * * *",
//	})
//	if err := journal.NewScheduler(pruner).Start(ctx); err != nil {
//	    return err
//	}
//
// # Export
//
// Query results can be exported as JSON or CSV with NewExporter.
package journal
