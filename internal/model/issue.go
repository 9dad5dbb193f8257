// Package model contains domain types for the issuecost application.
// These types are independent of any external GitHub or LLM library.
package model

import "strings"

// RepositoryRef identifies a repository on the hosting platform.
type RepositoryRef struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// FullName returns the owner/name form of the reference.
func (r RepositoryRef) FullName() string {
	return r.Owner + "/" + r.Name
}

// Issue is an open issue as reported by the hosting API.
// Pull requests never become an Issue.
type Issue struct {
	Number       int      `json:"number"`
	Title        string   `json:"title"`
	Body         *string  `json:"body,omitempty"` // nil when the issue has no description
	Labels       []string `json:"labels"`
	CommentCount int      `json:"commentCount"`
	HTMLURL      string   `json:"htmlUrl"`
}

// BodyText returns the issue body, or "" when absent.
func (i Issue) BodyText() string {
	if i.Body == nil {
		return ""
	}
	return *i.Body
}

// HasBody reports whether the issue carries a non-empty description.
func (i Issue) HasBody() bool {
	return i.Body != nil && *i.Body != ""
}

// LabelsJoined returns the label names joined the way the CSV report expects.
func (i Issue) LabelsJoined() string {
	return strings.Join(i.Labels, "; ")
}
