// Package reports holds the observable state behind the two screens of the
// viewer: the attendance report (Reports) and the backend settings form
// (Settings).
//
// Each holder keeps one state value guarded by a mutex. Commands replace it
// with a new snapshot and publish that snapshot to subscribers; renderers
// only read snapshots. A failed command changes nothing but the error
// message and the busy flag, so previously loaded data stays on screen.
// Error messages are one-shot: renderers call ClearError after showing them.
package reports
