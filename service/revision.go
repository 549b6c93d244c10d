package service

import (
	"github.com/go-git/go-git/v5"
)

// Revision returns the HEAD commit hash of the repository containing root,
// or "" when root is not inside a git work tree.
func Revision(root string) string {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	return head.Hash().String()
}
