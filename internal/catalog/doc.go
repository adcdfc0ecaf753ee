// Package catalog persists assembled-dataset records in SQLite.
//
// The Store manages the database connection, schema initialization, busy
// retries, and the flock guard that keeps the catalog open in one process
// at a time. Records capture the shape and knobs of every saved ingest;
// instance rows keep the resolved name, label, and speaker of each dataset
// row for the most recent ingest of a source.
//
// The database lives in the cache directory and is rebuildable from the
// source artifacts, so it is treated as a cache rather than an archive.
// Schema changes bump the version in schema.go; users clear the catalog to
// adopt the new schema.
package catalog
