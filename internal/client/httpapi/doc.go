// Package httpapi exposes the report and settings state holders over HTTP.
//
// Endpoints (all under /api/v1):
//
//	GET    /health              liveness
//	GET    /reports             current report state
//	POST   /reports/refresh     reload records from the backend
//	PUT    /reports/selection   change employee and/or date filter
//	DELETE /reports/error       acknowledge the current error message
//	GET    /reports/events      report state as a server-sent event stream
//	GET    /settings            settings form (secret key masked)
//	PUT    /settings            save endpoint and secret key
//	POST   /settings/test       probe the backend with the form values
//	DELETE /settings            forget stored credentials
//
// Typed operations are registered with huma on a chi router; the event
// stream is a plain chi handler.
package httpapi
