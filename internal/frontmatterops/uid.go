package frontmatterops

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// UIDAliasPrefix is the alias folder that permanent note identifiers live under.
const UIDAliasPrefix = "_uid/"

// EnsureUID ensures fields contains a uid.
//
// It only generates a new uid when the key is missing.
func EnsureUID(fields map[string]any) (uidStr string, changed bool, err error) {
	if fields == nil {
		return "", false, errors.New("fields map is nil")
	}

	if v, ok := fields[keyUID]; ok {
		return strings.TrimSpace(fmt.Sprint(v)), false, nil
	}

	uidStr = uuid.NewString()
	fields[keyUID] = uidStr
	return uidStr, true, nil
}

// EnsureUIDAlias ensures fields.aliases contains "_uid/<uid>", so the note
// stays reachable through a redirect after it is renamed.
func EnsureUIDAlias(fields map[string]any, uid string) (changed bool, err error) {
	if fields == nil {
		return false, errors.New("fields map is nil")
	}

	uid = strings.TrimSpace(uid)
	if uid == "" {
		return false, errors.New("uid is empty")
	}

	expected := UIDAliasPrefix + uid

	var list []string
	switch v := fields[keyAliases].(type) {
	case nil:
	case []string:
		list = v
	case []any:
		for _, item := range v {
			list = append(list, fmt.Sprint(item))
		}
	case string:
		if s := strings.TrimSpace(v); s != "" {
			list = []string{s}
		}
	default:
		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
			list = []string{s}
		}
	}

	if slices.Contains(list, expected) {
		fields[keyAliases] = list
		return false, nil
	}
	fields[keyAliases] = append(list, expected)
	return true, nil
}
