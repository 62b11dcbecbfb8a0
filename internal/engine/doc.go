// Package engine drives queue items through the external generation pipeline
// under credit-based admission control.
//
// The foreground path (ProcessItem, ProcessAll) validates the request, checks
// the owner's credit balance, and durably claims the matched items to
// processing before returning; batch admission is all-or-nothing, so a batch
// the balance cannot cover changes zero rows. Each accepted request detaches
// one background task that executes the pipeline steps in order: start
// workflow and generate article are fatal on failure, featured image and
// publish are best-effort extras gated by the owner's profile. Batch tasks
// process their items strictly sequentially with a pacing delay between
// completions.
//
// Terminal transitions are status-guarded single statements, so repeating one
// converges to the same row. Exactly one credit is charged per item reaching
// done, never for exempt owners. A panic or unexpected error inside a task is
// caught at the task boundary and forced into the error transition; on daemon
// startup ReclaimStale returns rows orphaned by a crash to pending.
package engine
