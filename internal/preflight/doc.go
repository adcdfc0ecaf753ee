// Package preflight provides readiness checks for the directories, corpus
// definitions, and catalog database that serdata depends on.
//
// The CLI "serdata preflight" command runs RunAll before a long ingest
// session so a doomed run fails in seconds instead of minutes. Each check
// is gated by its config toggle; a disabled catalog skips the database
// probes.
package preflight
