// Package jobs provides scheduled background tasks for the order workflow.
//
// Jobs are built on github.com/robfig/cron/v3 with second precision.
//
// # Available Jobs
//
// DeadlineScanJob lists orders past their deadline and orders whose required
// date falls within the warning window, logs them and reports the counts to an
// optional ScanObserver.
//
// # Usage
//
//	jobManager := jobs.NewJobManager()
//	jobManager.Add("deadline scan", jobs.NewDeadlineScanJob(deadlineHandler, 72*time.Hour, "", gauges, logger))
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed scan is logged and retried on the next tick. A job that fails to
// start stops every job started before it.
package jobs
