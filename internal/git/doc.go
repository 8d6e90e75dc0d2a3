// Package git reads version-control history of the content tree so documents
// can be dated by their first and latest commits.
//
// The history is walked once per build from HEAD along first parents; lookups
// afterwards are map hits keyed by worktree relative path.
package git
