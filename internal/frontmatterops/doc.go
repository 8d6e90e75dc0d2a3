// Package frontmatterops holds operations over parsed frontmatter fields:
// canonical content fingerprints and stable note identifiers.
package frontmatterops
