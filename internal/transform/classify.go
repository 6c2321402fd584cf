package transform

import "github.com/ideosphere/ideosphere/internal/model"

// ClassifyFeedItem decides whether a mixed-feed payload is an idea or a
// post. An explicit kind tag wins. Legacy payloads carry none; for those the
// upstream rule applies verbatim: the item is an idea iff a description or
// summary key is present at all, even as an empty string.
func ClassifyFeedItem(raw RawFeedItem) model.ContentKind {
	switch model.ContentKind(raw.Kind) {
	case model.KindIdea:
		return model.KindIdea
	case model.KindPost:
		return model.KindPost
	}
	if raw.Description != nil || raw.Summary != nil {
		return model.KindIdea
	}
	return model.KindPost
}
