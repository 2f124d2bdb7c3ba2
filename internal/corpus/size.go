package corpus

import (
	"fmt"
	"os"
	"path/filepath"

	"recoverystats/domain/report"
)

// Measure counts the input programs in dir and their total size in bytes.
// Only the top level of dir is considered; entries that are directories
// count as files of their directory-entry size, matching a plain listing.
func Measure(dir string) (report.CorpusSize, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return report.CorpusSize{}, fmt.Errorf("failed to list corpus directory: %w", err)
	}

	var size report.CorpusSize
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return report.CorpusSize{}, fmt.Errorf("failed to stat %s: %w", filepath.Join(dir, entry.Name()), err)
		}
		size.Files++
		size.Bytes += info.Size()
	}
	return size, nil
}
