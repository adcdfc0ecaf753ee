package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"serdata/internal/catalog"
	"serdata/internal/config"
	"serdata/internal/corpus"
	"serdata/internal/deps"
)

// CheckDirectoryAccess verifies path is a directory this process can read,
// write, and traverse.
func CheckDirectoryAccess(name, path string) Result {
	fail := func(detail string) Result {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%s)", path, detail)}
	}
	switch info, err := os.Stat(path); {
	case errors.Is(err, os.ErrNotExist):
		return fail("does not exist")
	case err != nil:
		return fail(err.Error())
	case !info.IsDir():
		return fail("not a directory")
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fail(fmt.Sprintf("insufficient permissions: %v", err))
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// statfs reports total and free bytes for the filesystem containing path.
// Swappable for tests.
var statfs = realStatfs

func realStatfs(path string) (uint64, uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	return total, free, nil
}

// CheckFreeSpace verifies the filesystem holding path has at least minFreeMiB
// mebibytes available. A floor of zero reports free space without enforcing one.
func CheckFreeSpace(name, path string, minFreeMiB int) Result {
	_, free, err := statfs(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	freeMiB := free / (1 << 20)
	if minFreeMiB > 0 && freeMiB < uint64(minFreeMiB) {
		return Result{Name: name, Detail: fmt.Sprintf("%d MiB free, need %d MiB", freeMiB, minFreeMiB)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d MiB free", freeMiB)}
}

// CheckDefinitions verifies the configured corpus definition files load into
// the registry without conflicts.
func CheckDefinitions(cfg *config.Config) Result {
	const name = "Corpus definitions"

	if len(cfg.Corpora.DefinitionFiles) == 0 {
		return Result{Name: name, Passed: true, Detail: "builtin corpora only"}
	}
	reg := corpus.Builtin()
	for _, path := range cfg.Corpora.DefinitionFiles {
		if err := reg.LoadDefinitions(path); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s: %v", path, err)}
		}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d corpora registered", reg.Len())}
}

// CheckTools verifies the configured external commands resolve to
// executables. One result per requirement; none when nothing is configured.
func CheckTools(cfg *config.Config) []Result {
	requirements := deps.FromConfig(cfg)
	if len(requirements) == 0 {
		return nil
	}
	statuses := deps.CheckBinaries(requirements)
	results := make([]Result, len(statuses))
	for i, status := range statuses {
		if status.Available {
			results[i] = Result{Name: status.Name, Passed: true, Detail: status.Command}
			continue
		}
		results[i] = Result{Name: status.Name, Detail: status.Detail}
	}
	return results
}

// CheckCatalog verifies the catalog database can be opened and passes its
// integrity check. It fails while another process holds the catalog lock.
func CheckCatalog(ctx context.Context, cfg *config.Config) Result {
	const name = "Catalog"

	store, err := catalog.Open(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()

	health, err := store.CheckHealth(ctx)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if !health.IntegrityCheck {
		return Result{Name: name, Detail: fmt.Sprintf("%s (integrity check failed)", health.DBPath)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d records)", health.DBPath, health.TotalRecords)}
}
