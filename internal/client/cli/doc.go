// Package cli provides the reportsviewer command-line client.
//
// It wires configuration, the local settings database, the backend
// connection cache and the report/settings state holders, and exposes them
// as cobra commands:
//
//   - report     print attendance records for an employee and date window
//   - employees  list distinct employee ids
//   - settings   show, set, clear or test the backend credentials
//   - export     write records to an XLSX or CSV file
//   - repl       interactive loop over the same state
//   - serve      HTTP API with a server-sent event stream
//
// Every command builds an App in PersistentPreRunE and closes it afterwards.
// Output goes to the command's writer; logs go to stderr.
package cli
