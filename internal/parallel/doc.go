// Package parallel provides the worker pool that runs shader compile jobs.
//
// Compilation is CPU-bound and independent per shader variant, so jobs for
// distinct variants run on separate workers. Each worker owns a queue and
// steals from its siblings when idle, which keeps long compiles from
// starving short ones queued behind them.
package parallel
