// Package session implements the learning session engine: loading a study
// set's cards, sequential "basic" browsing with seen-tracking, self-assessed
// "study" traversal with optimistic mastery persistence, and the mode
// orchestration shared by both controllers.
//
// A Session is an in-memory state machine owned by a single learner. All
// state transitions are synchronous and atomic with respect to the event that
// triggered them; the only asynchronous work is mastery persistence, which
// never blocks navigation.
package session
