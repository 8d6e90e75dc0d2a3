package frontmatterops

import (
	"errors"
	"strings"

	"git.home.luguber.info/inful/docgraph/internal/frontmatter"
	"github.com/inful/mdfp"
)

const (
	keyAliases  = "aliases"
	keyModified = "modified"
	keyUID      = "uid"
)

// FingerprintField is the frontmatter key the fingerprint is stored under.
const FingerprintField = mdfp.FingerprintField

// ComputeFingerprint computes the canonical content fingerprint for a note.
//
// Canonicalization rules:
//   - excludes: fingerprint, modified, uid, aliases
//   - serializes YAML with sorted keys and LF newlines
//   - trims a single trailing newline from the serialized YAML before hashing
func ComputeFingerprint(fields map[string]any, body []byte) (string, error) {
	if fields == nil {
		return "", errors.New("fields map is nil")
	}

	fieldsForHash := make(map[string]any, len(fields))
	for k, v := range fields {
		switch k {
		case mdfp.FingerprintField, keyModified, keyUID, keyAliases:
			continue
		}
		fieldsForHash[k] = v
	}

	frontmatterForHash := ""
	if len(fieldsForHash) > 0 {
		serialized, err := frontmatter.SerializeYAML(fieldsForHash)
		if err != nil {
			return "", err
		}
		frontmatterForHash = trimSingleTrailingNewline(string(serialized))
	}

	return mdfp.CalculateFingerprintFromParts(frontmatterForHash, string(body)), nil
}

// Stale reports whether the fingerprint recorded in fields differs from the
// one computed over the current content. Notes without a recorded
// fingerprint are never stale.
func Stale(fields map[string]any, body []byte) (bool, error) {
	recorded, ok := fields[mdfp.FingerprintField].(string)
	if !ok || strings.TrimSpace(recorded) == "" {
		return false, nil
	}
	current, err := ComputeFingerprint(fields, body)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(recorded) != current, nil
}

func trimSingleTrailingNewline(s string) string {
	if before, ok := strings.CutSuffix(s, "\r\n"); ok {
		return before
	}
	if before, ok := strings.CutSuffix(s, "\n"); ok {
		return before
	}
	return s
}
