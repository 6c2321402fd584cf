package model

import (
	"fmt"
	"strings"
)

// ContentKind tags every content reference flowing through the pipeline,
// replacing duck-typing on which fields a payload happens to carry.
type ContentKind string

const (
	KindIdea       ContentKind = "idea"
	KindPost       ContentKind = "post"
	KindDiscussion ContentKind = "discussion"
	KindReply      ContentKind = "reply"
)

func (k ContentKind) Valid() bool {
	switch k {
	case KindIdea, KindPost, KindDiscussion, KindReply:
		return true
	}
	return false
}

// Collection is the path segment used in qualified ids ("ideas/123").
func (k ContentKind) Collection() string {
	switch k {
	case KindIdea:
		return "ideas"
	case KindPost:
		return "posts"
	case KindDiscussion:
		return "discussions"
	case KindReply:
		return "comments"
	}
	return ""
}

// Ref is a parsed {collection}/{key} identifier.
type Ref struct {
	Kind ContentKind
	Key  string
}

func (r Ref) String() string { return r.Kind.Collection() + "/" + r.Key }

// ParseRef splits a qualified id into kind and bare key. Bare keys without a
// collection prefix are accepted when fallback is a valid kind; the wire
// convention splits on "/" and must stay that way.
func ParseRef(qualified string, fallback ContentKind) (Ref, error) {
	parts := strings.SplitN(qualified, "/", 2)
	if len(parts) == 1 {
		if !fallback.Valid() {
			return Ref{}, fmt.Errorf("unqualified id %q", qualified)
		}
		return Ref{Kind: fallback, Key: parts[0]}, nil
	}
	var kind ContentKind
	switch parts[0] {
	case "ideas":
		kind = KindIdea
	case "posts":
		kind = KindPost
	case "discussions":
		kind = KindDiscussion
	case "comments":
		kind = KindReply
	default:
		return Ref{}, fmt.Errorf("unknown collection %q", parts[0])
	}
	if parts[1] == "" {
		return Ref{}, fmt.Errorf("empty key in %q", qualified)
	}
	return Ref{Kind: kind, Key: parts[1]}, nil
}
