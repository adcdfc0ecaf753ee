// Package ingest drives dataset construction from a source artifact.
//
// It dispatches to the reader matching the source format, assembles the raw
// table against the corpus metadata, standardizes features, and optionally
// aggregates frame rows into padded per-utterance sequences. One artifact and
// one corpus produce one dataset; every failure is fatal to the build in
// progress and is reported to the caller, never recovered here.
package ingest
