// Package corpus is the registry of speech emotion corpora.
//
// Each corpus is described by a Meta value: the mapping from artifact label
// codes to canonical label names, optional arousal/valence polarity groups,
// the speaker roster (optionally split by gender), and the rules that recover
// label codes and speaker IDs from instance names. The registry ships with
// the corpora the feature artifacts are produced from and can be extended
// with YAML definition files.
//
// Metadata is data, not logic: readers and the assembler stay corpus-agnostic
// and consult the registry for everything corpus-specific.
package corpus
