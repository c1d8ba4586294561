// Package task provides the background task processing infrastructure:
// a persistent task model, a buffered in-memory queue, a worker pool that
// drains it, and a runner that ties them together with crash recovery and
// stuck-task detection.
//
// The only task type today is the mastery reset, which clears the mastery
// flag on every card of a study set after a learner restarts study mode.
package task
