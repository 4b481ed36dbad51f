package ingest

import "time"

const (
	OriginScheduler      = "scheduler"
	OriginManual         = "manual"
	OriginFetchAndIngest = "fetch_and_ingest"
	OriginCLI            = "cli"

	DefaultInterval = 60 * time.Second
)
