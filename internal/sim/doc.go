/*
Sim owns the lifecycle of every simulation run.

# Runs
  - orders: traders place random orders into a shared book
  - feeds: one walker per symbol plus a periodic reporter
  - risk: strategies compete for a fixed capacity with retry and backoff
  - scan: one watcher per symbol checks whether a target is crossed
  - windowed stats: range-partitioned or per-series parallel reduction

# Lifecycle
 1. validate inputs, reject with errors.ErrInvalidArgument
 2. build fresh shared state for the run
 3. spawn workers with forked random sources
 4. wait for completion, duration or cancellation
 5. cancel, join, harvest

# Shared state
  - never global, one mutex per aggregate, owned by a single run
*/
package sim
