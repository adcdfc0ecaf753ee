// Package dataset assembles corpus-agnostic machine learning datasets from
// the raw tables produced by the format readers.
//
// A Table is the readers' common output: per-row instance names, label
// tokens, and a numeric payload. Assemble resolves tokens and names against
// corpus metadata into integer class labels, speaker indices, speaker group
// indices, gender index views, and optional binary label views. Resolution
// is strict: an unresolvable label or speaker aborts the build instead of
// producing a dataset with silently misassigned rows.
package dataset
