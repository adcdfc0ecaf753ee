package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"serdata/internal/testsupport"
)

type cliHarness struct {
	baseDir    string
	configPath string
	dataDir    string
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()

	base := t.TempDir()
	env := &cliHarness{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		dataDir:    filepath.Join(base, "corpora"),
	}
	writeCLIConfig(t, env.configPath, base)
	if err := os.MkdirAll(env.dataDir, 0o755); err != nil {
		t.Fatalf("create data dir: %v", err)
	}
	return env
}

func writeCLIConfig(t *testing.T, path, base string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
data_dir = %q
cache_dir = %q
log_dir = %q

[ingest]
progress = false

[catalog]
enabled = true
min_free_mib = 0
`,
		filepath.Join(base, "corpora"),
		filepath.Join(base, "cache"),
		filepath.Join(base, "logs"),
	)
	testsupport.WriteFile(t, path, content)
}

func execCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cliArgs := args
	if configPath != "" {
		cliArgs = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(cliArgs)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeEmodbFixture(t *testing.T, env *cliHarness) string {
	t.Helper()
	path := filepath.Join(env.dataDir, "emodb.arff")
	content := `@relation emodb
@attribute name string
@attribute f1 numeric
@attribute f2 numeric
@attribute emotion string
@data
03a01Wa,1.0,2.0,W
03a02Na,3.0,4.0,N
16b10Wb,5.0,6.0,W
16b03Nb,2.0,1.0,N
`
	return testsupport.WriteFile(t, path, content)
}

func TestCLICorporaCommands(t *testing.T) {
	env := newCLIHarness(t)

	out, _, err := execCLI(t, []string{"corpora"}, env.configPath)
	if err != nil {
		t.Fatalf("corpora: %v", err)
	}
	if !strings.Contains(out, "emodb") || !strings.Contains(out, "iemocap") {
		t.Fatalf("corpora list missing builtins: %q", out)
	}

	out, _, err = execCLI(t, []string{"corpora", "show", "emodb"}, env.configPath)
	if err != nil {
		t.Fatalf("corpora show: %v", err)
	}
	if !strings.Contains(out, "Boredom") {
		t.Fatalf("expected title-cased classes in output: %q", out)
	}
	if !strings.Contains(out, "5 male, 5 female") {
		t.Fatalf("expected gender breakdown in output: %q", out)
	}

	out, _, err = execCLI(t, []string{"corpora", "show", "emodb", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("corpora show --json: %v", err)
	}
	var detail corpusDetailJSON
	if err := json.Unmarshal([]byte(out), &detail); err != nil {
		t.Fatalf("unmarshal corpus detail: %v", err)
	}
	if detail.ID != "emodb" {
		t.Fatalf("expected id emodb, got %q", detail.ID)
	}
	if len(detail.Classes) != 7 || len(detail.Speakers) != 10 {
		t.Fatalf("unexpected counts: %d classes, %d speakers", len(detail.Classes), len(detail.Speakers))
	}
	if !detail.BinaryViews {
		t.Fatal("expected emodb to advertise binary views")
	}

	_, _, err = execCLI(t, []string{"corpora", "show", "nosuch"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "unknown corpus") {
		t.Fatalf("expected unknown corpus error, got %v", err)
	}
}

func TestCLIIngestAndCatalog(t *testing.T) {
	env := newCLIHarness(t)
	source := writeEmodbFixture(t, env)

	out, _, err := execCLI(t, []string{"ingest", source, "--save"}, env.configPath)
	if err != nil {
		t.Fatalf("ingest --save: %v", err)
	}
	if !strings.Contains(out, "emodb") || !strings.Contains(out, "Catalog record") {
		t.Fatalf("unexpected ingest output: %q", out)
	}
	if !strings.Contains(out, "Anger") || !strings.Contains(out, "10 (2 present)") {
		t.Fatalf("missing diagnostic counts: %q", out)
	}

	out, _, err = execCLI(t, []string{"catalog", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	if !strings.Contains(out, "emodb") || !strings.Contains(out, "utterances") {
		t.Fatalf("catalog list missing record: %q", out)
	}

	out, _, err = execCLI(t, []string{"catalog", "show", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog show: %v", err)
	}
	if !strings.Contains(out, source) {
		t.Fatalf("catalog show missing source path: %q", out)
	}

	// A non-numeric argument resolves as a source path.
	out, _, err = execCLI(t, []string{"catalog", "show", source, "--instances"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog show by source: %v", err)
	}
	if !strings.Contains(out, "03a01Wa") || !strings.Contains(out, "Anger") {
		t.Fatalf("catalog show missing instance rows: %q", out)
	}

	out, _, err = execCLI(t, []string{"catalog", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog stats: %v", err)
	}
	if !strings.Contains(out, "emodb") {
		t.Fatalf("catalog stats missing corpus: %q", out)
	}
}

func TestCLIIngestJSON(t *testing.T) {
	env := newCLIHarness(t)
	source := writeEmodbFixture(t, env)

	out, _, err := execCLI(t, []string{"ingest", source, "--save", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("ingest --json: %v", err)
	}
	var summary ingestSummaryJSON
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("unmarshal ingest summary: %v", err)
	}
	if summary.Corpus != "emodb" || summary.Format != "arff" || summary.Granularity != "utterances" {
		t.Fatalf("unexpected summary identity: %+v", summary)
	}
	if summary.Instances != 4 || summary.Features != 2 || len(summary.Classes) != 7 {
		t.Fatalf("unexpected summary counts: %+v", summary)
	}
	if summary.Normalize != "speaker" {
		t.Fatalf("expected config default normalize, got %q", summary.Normalize)
	}
	if summary.SpeakersPresent != 2 {
		t.Fatalf("expected 2 speakers present, got %d", summary.SpeakersPresent)
	}
	total := 0
	for _, c := range summary.ClassCounts {
		total += c
	}
	if total != summary.Instances {
		t.Fatalf("class counts sum %d does not match %d instances", total, summary.Instances)
	}
	if summary.RunID == "" {
		t.Fatal("expected a run ID")
	}
	if summary.CatalogID == 0 {
		t.Fatal("expected a catalog record ID after --save")
	}

	out, _, err = execCLI(t, []string{"catalog", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog list --json: %v", err)
	}
	var records []catalogRecordJSON
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("unmarshal catalog records: %v", err)
	}
	if len(records) != 1 || records[0].ID != summary.CatalogID {
		t.Fatalf("unexpected catalog records: %+v", records)
	}
	if records[0].RunID != summary.RunID {
		t.Fatalf("run ID mismatch: %q vs %q", records[0].RunID, summary.RunID)
	}
}

func TestCLIIngestFlagsOverrideConfig(t *testing.T) {
	env := newCLIHarness(t)
	source := writeEmodbFixture(t, env)

	out, _, err := execCLI(t, []string{"ingest", source, "--normalize", "none", "--binarize", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("ingest with flags: %v", err)
	}
	var summary ingestSummaryJSON
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("unmarshal ingest summary: %v", err)
	}
	if summary.Normalize != "none" {
		t.Fatalf("expected normalize none, got %q", summary.Normalize)
	}
	if !summary.Binarize {
		t.Fatal("expected binarize true")
	}
}

func TestCLIIngestUnknownCorpus(t *testing.T) {
	env := newCLIHarness(t)
	path := filepath.Join(env.dataDir, "strange.arff")
	content := "@relation nosuch\n@attribute name string\n@attribute f1 numeric\n@attribute emotion string\n@data\nab,1.0,x\n"
	testsupport.WriteFile(t, path, content)

	_, _, err := execCLI(t, []string{"ingest", path}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "unknown corpus") {
		t.Fatalf("expected unknown corpus error, got %v", err)
	}
}

func TestCLICatalogMaintenance(t *testing.T) {
	env := newCLIHarness(t)
	source := writeEmodbFixture(t, env)

	if _, _, err := execCLI(t, []string{"ingest", source, "--save"}, env.configPath); err != nil {
		t.Fatalf("ingest --save: %v", err)
	}

	out, _, err := execCLI(t, []string{"catalog", "remove", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog remove: %v", err)
	}
	if !strings.Contains(out, "Removed record 1") {
		t.Fatalf("unexpected remove output: %q", out)
	}

	out, _, err = execCLI(t, []string{"catalog", "remove", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog remove repeat: %v", err)
	}
	if !strings.Contains(out, "Record 1 not found") {
		t.Fatalf("unexpected repeat remove output: %q", out)
	}

	if _, _, err := execCLI(t, []string{"ingest", source, "--save"}, env.configPath); err != nil {
		t.Fatalf("ingest --save again: %v", err)
	}

	out, _, err = execCLI(t, []string{"catalog", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog clear: %v", err)
	}
	if !strings.Contains(out, "Cleared 1 catalog record") {
		t.Fatalf("clear output = %q", out)
	}

	out, _, err = execCLI(t, []string{"catalog", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog list after clear: %v", err)
	}
	if !strings.Contains(out, "Catalog is empty") {
		t.Fatalf("expected empty catalog message, got %q", out)
	}

	out, _, err = execCLI(t, []string{"catalog", "health"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog health: %v", err)
	}
	if !strings.Contains(out, "Integrity: yes") || !strings.Contains(out, "Records: 0") {
		t.Fatalf("unexpected health output: %q", out)
	}
}

func TestCLILogs(t *testing.T) {
	env := newCLIHarness(t)

	out, _, err := execCLI(t, []string{"logs"}, env.configPath)
	if err != nil {
		t.Fatalf("logs without file: %v", err)
	}
	if !strings.Contains(out, "No log entries available") {
		t.Fatalf("expected empty-log message, got %q", out)
	}

	logPath := testsupport.WriteFile(t,
		filepath.Join(env.baseDir, "logs", "serdata.log"), "first\nsecond\nthird\n")

	out, _, err = execCLI(t, []string{"logs", "--lines", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("logs --lines: %v", err)
	}
	if strings.Contains(out, "first") || !strings.Contains(out, "second") || !strings.Contains(out, "third") {
		t.Fatalf("unexpected logs output: %q", out)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", env.configPath, "logs", "--follow"})
	cmd.SetContext(ctx)

	done := make(chan error, 1)
	go func() {
		done <- cmd.Execute()
	}()

	time.Sleep(100 * time.Millisecond)
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("followed\n"); err != nil {
		t.Fatalf("append log: %v", err)
	}
	_ = f.Close()
	time.Sleep(600 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("logs --follow execute: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("logs --follow did not exit")
	}

	if !strings.Contains(stdout.String(), "followed") {
		t.Fatalf("follow output missing appended line: %q", stdout.String())
	}
}

func TestCLIPreflight(t *testing.T) {
	env := newCLIHarness(t)

	out, _, err := execCLI(t, []string{"preflight"}, env.configPath)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	if !strings.Contains(out, "Preflight checks") {
		t.Fatalf("missing section header: %q", out)
	}
	if strings.Contains(out, "[ERROR]") {
		t.Fatalf("unexpected failing check: %q", out)
	}
	if !strings.Contains(out, "All 6 checks passed") {
		t.Fatalf("unexpected summary: %q", out)
	}
}

func TestCLIConfigCommands(t *testing.T) {
	env := newCLIHarness(t)

	target := filepath.Join(env.baseDir, "fresh", "config.toml")
	out, _, err := execCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Sample configuration written") {
		t.Fatalf("unexpected init output: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected sample config on disk: %v", err)
	}

	_, _, err = execCLI(t, []string{"config", "init", "--path", target}, "")
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected existing-file error, got %v", err)
	}

	if _, _, err := execCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = execCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") || !strings.Contains(out, env.configPath) {
		t.Fatalf("unexpected validate output: %q", out)
	}
}
