// Package jobs provides scheduled background tasks for the dispatch service.
//
// Jobs are cron based (github.com/robfig/cron/v3) and managed through
// JobManager:
//
//	jobManager := jobs.NewJobManager(staleAssignmentJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// StaleAssignmentJob returns orders to pending when they have sat in assigned
// longer than the configured timeout. It acts as a configured system role and
// goes through the same coordinator and compare-and-set as API requests, so a
// driver starting the order at the same moment wins cleanly.
//
// A run never overlaps the previous one; StopAll waits for a running job to
// finish.
package jobs
