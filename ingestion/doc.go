// Package ingestion drives records through an ordered list of stages.
//
// A Pipeline opens its stages once, processes records concurrently on a
// worker pool and closes every opened stage exactly once, in reverse order.
// For each record the stages run in order; a stage returning an error that
// wraps core.ErrDropItem stops the record and counts it as dropped, any
// other error counts it as failed. Records are independent: a failing
// record never stops the run.
package ingestion
