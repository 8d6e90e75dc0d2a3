package docs

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// SnapshotHash computes a deterministic hash over the discovered file set using
// paths, sizes and modification times. Watch mode compares snapshots to skip
// rebuilds triggered by events that changed nothing visible to discovery.
func SnapshotHash(files []File) string {
	if len(files) == 0 {
		h := sha256.Sum256([]byte("empty-content-set"))
		return hex.EncodeToString(h[:])
	}

	sorted := append([]File(nil), files...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RelPath < sorted[j].RelPath })

	h := sha256.New()
	for _, f := range sorted {
		_, _ = fmt.Fprintf(h, "%s|%d|%d\n", f.RelPath, f.Size, f.ModTime.UnixNano())
	}
	return hex.EncodeToString(h.Sum(nil))
}
