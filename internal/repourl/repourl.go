// Package repourl extracts repository references from user-supplied URLs.
package repourl

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/spiffcs/issuecost/internal/model"
)

// ErrInvalidReference is returned when no host/owner/name path can be found.
var ErrInvalidReference = errors.New("invalid repository URL format, expected: https://github.com/owner/repo")

var (
	// host/owner/name anywhere in the string; owner and name are single path segments.
	pathPattern = regexp.MustCompile(`([^/\s]+)/([^/\s?#]+)/([^/\s?#]+)`)

	// scp-style clone URLs: git@host:owner/name.git
	scpPattern = regexp.MustCompile(`^[^@\s/]+@([^:\s/]+):([^/\s]+)/([^/\s?#]+)`)
)

// Parse extracts the owner and repository name from a URL such as
// https://github.com/owner/repo or git@github.com:owner/repo.git.
// A trailing ".git" is stripped from the name.
func Parse(raw string) (model.RepositoryRef, error) {
	s := strings.TrimSpace(raw)

	if m := scpPattern.FindStringSubmatch(s); m != nil {
		if ref, ok := build(m[2], m[3]); ok {
			return ref, nil
		}
	}

	// Drop the scheme so "https:" is never mistaken for a host segment.
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}

	m := pathPattern.FindStringSubmatch(s)
	if m == nil {
		return model.RepositoryRef{}, fmt.Errorf("%w: %q", ErrInvalidReference, raw)
	}
	ref, ok := build(m[2], m[3])
	if !ok {
		return model.RepositoryRef{}, fmt.Errorf("%w: %q", ErrInvalidReference, raw)
	}
	return ref, nil
}

func build(owner, name string) (model.RepositoryRef, bool) {
	name = strings.TrimSuffix(name, ".git")
	if owner == "" || name == "" {
		return model.RepositoryRef{}, false
	}
	return model.RepositoryRef{Owner: owner, Name: name}, true
}
