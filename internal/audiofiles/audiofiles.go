// Package audiofiles reads raw audio corpora described by a file list: one
// audio path per line, labels in an annotation file next to the list. Each
// instance becomes a single column matrix of samples; no features are
// extracted here.
package audiofiles

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mjibson/go-dsp/wav"
	"gonum.org/v1/gonum/mat"

	"serdata/internal/annotations"
	"serdata/internal/dataset"
)

// DecodeFunc turns one audio file into a sample vector.
type DecodeFunc func(path string) ([]float64, error)

// Options configure Read.
type Options struct {
	// Decode decodes one audio file. Nil selects DecodeWAV.
	Decode DecodeFunc
	// Progress, when set, is called after each decoded file with the
	// number of files done and the total.
	Progress func(done, total int)
}

// Annotation file names probed next to the list file.
var annotationNames = []string{"labels.csv", "labels.txt"}

// Read loads the file list at listPath and decodes every referenced audio
// file. Relative audio paths are resolved against the list's directory.
// Instance names are the path stems; labels are joined from the annotation
// file beside the list.
func Read(listPath string, opts Options) (dataset.Table, error) {
	decode := opts.Decode
	if decode == nil {
		decode = DecodeWAV
	}

	raw, err := os.ReadFile(listPath)
	if err != nil {
		return dataset.Table{}, fmt.Errorf("file list: %w: %w", dataset.ErrSourceRead, err)
	}
	dir := filepath.Dir(listPath)

	var files []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(dir, line)
		}
		files = append(files, line)
	}
	if len(files) == 0 {
		return dataset.Table{}, fmt.Errorf("file list %s names no audio files", listPath)
	}

	labels, err := loadAnnotations(dir)
	if err != nil {
		return dataset.Table{}, err
	}

	n := len(files)
	names := make([]string, n)
	tokens := make([]string, n)
	seqs := make([]*mat.Dense, n)
	for i, file := range files {
		name := stem(file)
		names[i] = name

		label, err := annotations.Require(labels, name)
		if err != nil {
			return dataset.Table{}, err
		}
		tokens[i] = label

		samples, err := decode(file)
		if err != nil {
			return dataset.Table{}, err
		}
		if len(samples) == 0 {
			return dataset.Table{}, fmt.Errorf("audio file %s holds no samples", file)
		}
		seqs[i] = mat.NewDense(len(samples), 1, samples)

		if opts.Progress != nil {
			opts.Progress(i+1, n)
		}
	}

	return dataset.Table{
		Names:  names,
		Attrs:  []string{"pcm"},
		Tokens: tokens,
		Seqs:   seqs,
	}, nil
}

// DecodeWAV decodes a WAV file into normalized samples in [-1, 1].
// Multichannel audio is averaged down to one channel.
func DecodeWAV(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audio file: %w: %w", dataset.ErrSourceRead, err)
	}
	defer f.Close()

	w, err := wav.New(f)
	if err != nil {
		return nil, fmt.Errorf("audio file %s: %w: %w", path, dataset.ErrSourceRead, err)
	}
	floats, err := w.ReadFloats(w.Samples)
	if err != nil {
		return nil, fmt.Errorf("audio file %s: %w: %w", path, dataset.ErrSourceRead, err)
	}

	channels := int(w.NumChannels)
	if channels <= 1 {
		out := make([]float64, len(floats))
		for i, v := range floats {
			out[i] = float64(v)
		}
		return out, nil
	}
	frames := len(floats) / channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(floats[i*channels+c])
		}
		out[i] = sum / float64(channels)
	}
	return out, nil
}

func loadAnnotations(dir string) (map[string]string, error) {
	var probed []string
	for _, name := range annotationNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return annotations.ParseClassification(path)
		}
		probed = append(probed, path)
	}
	return nil, fmt.Errorf("no annotation file: %w: tried %s",
		dataset.ErrSourceRead, strings.Join(probed, ", "))
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
