// Package service implements the application operations over the storage
// ports, with the SmartCache mediating reads and mutation cascades.
package service

import (
	"context"

	"github.com/ideosphere/ideosphere/internal/model"
	"github.com/ideosphere/ideosphere/internal/repository"
	"github.com/ideosphere/ideosphere/internal/transform"
	"github.com/ideosphere/ideosphere/pkg/errs"
)

// Repos bundles the per-entity storage ports. Both the gorm and the
// in-memory adapters satisfy it, which is what collapses the original's two
// parallel data layers into one service layer.
type Repos struct {
	Users    repository.UserRepository
	Ideas    repository.IdeaRepository
	Posts    repository.PostRepository
	Feedback repository.FeedbackRepository
	Lineage  repository.LineageRepository
}

// buildIdeaView assembles the full idea view from its relation rows.
func buildIdeaView(ctx context.Context, r Repos, idea *model.Idea) (*transform.Idea, error) {
	creatorRows, err := r.Ideas.ListCreators(ctx, idea.ID)
	if err != nil {
		return nil, errs.Transport(err, "load creators for idea %s", idea.ID)
	}
	creatorIDs := make([]string, len(creatorRows))
	for i, c := range creatorRows {
		creatorIDs[i] = c.UserID
	}
	creators, err := r.Users.ListByIDs(ctx, creatorIDs)
	if err != nil {
		return nil, errs.Transport(err, "load creator users for idea %s", idea.ID)
	}
	supporters, err := r.Feedback.ListUserIDs(ctx, model.KindIdea, idea.ID, model.FeedbackSupports)
	if err != nil {
		return nil, errs.Transport(err, "load supporters for idea %s", idea.ID)
	}
	criteria, err := r.Ideas.ListCriteria(ctx, idea.ID)
	if err != nil {
		return nil, errs.Transport(err, "load criteria for idea %s", idea.ID)
	}
	ratings, err := r.Ideas.ListRatings(ctx, idea.ID)
	if err != nil {
		return nil, errs.Transport(err, "load ratings for idea %s", idea.ID)
	}
	topics, err := r.Posts.ListTopicsByIdea(ctx, idea.ID)
	if err != nil {
		return nil, errs.Transport(err, "load discussions for idea %s", idea.ID)
	}
	discussionIDs := make([]string, len(topics))
	for i, t := range topics {
		discussionIDs[i] = t.ID
	}

	parents, err := r.Lineage.ListParents(ctx, model.KindIdea, idea.ID)
	if err != nil {
		return nil, errs.Transport(err, "load lineage for idea %s", idea.ID)
	}
	var srcIdeas, srcPosts, srcDiscussions []string
	for _, e := range parents {
		switch e.ParentKind {
		case model.KindIdea:
			srcIdeas = append(srcIdeas, e.ParentID)
		case model.KindPost:
			srcPosts = append(srcPosts, e.ParentID)
		case model.KindDiscussion:
			srcDiscussions = append(srcDiscussions, e.ParentID)
		}
	}
	children, err := r.Lineage.ListChildren(ctx, model.KindIdea, idea.ID)
	if err != nil {
		return nil, errs.Transport(err, "load derived ideas for %s", idea.ID)
	}
	var derivedIdeas []string
	for _, e := range children {
		if e.ChildKind == model.KindIdea {
			derivedIdeas = append(derivedIdeas, e.ChildID)
		}
	}

	view := transform.NewIdea(idea, transform.IdeaParts{
		Creators:          creators,
		Supporters:        supporters,
		DiscussionIDs:     discussionIDs,
		Criteria:          criteria,
		Ratings:           ratings,
		SourceIdeas:       srcIdeas,
		SourcePosts:       srcPosts,
		SourceDiscussions: srcDiscussions,
		DerivedIdeas:      derivedIdeas,
	})
	return &view, nil
}

// buildReplyViews resolves authors and upvoter sets for a post's replies.
func buildReplyViews(ctx context.Context, r Repos, replies []model.PostReply) ([]transform.Reply, error) {
	views := make([]transform.Reply, 0, len(replies))
	for i := range replies {
		author, err := r.Users.GetByID(ctx, replies[i].AuthorID)
		if err != nil {
			return nil, errs.Transport(err, "load reply author")
		}
		upvoters, err := r.Feedback.ListUserIDs(ctx, model.KindReply, replies[i].ID, model.FeedbackLikes)
		if err != nil {
			return nil, errs.Transport(err, "load reply upvoters")
		}
		views = append(views, transform.NewReply(&replies[i], author, upvoters))
	}
	return views, nil
}

// buildPostView assembles the full post view.
func buildPostView(ctx context.Context, r Repos, post *model.Post) (*transform.Post, error) {
	author, err := r.Users.GetByID(ctx, post.AuthorID)
	if err != nil {
		return nil, errs.Transport(err, "load author for post %s", post.ID)
	}
	supporters, err := r.Feedback.ListUserIDs(ctx, model.KindPost, post.ID, model.FeedbackSupports)
	if err != nil {
		return nil, errs.Transport(err, "load supporters for post %s", post.ID)
	}
	replyRows, err := r.Posts.ListReplies(ctx, post.ID)
	if err != nil {
		return nil, errs.Transport(err, "load replies for post %s", post.ID)
	}
	replies, err := buildReplyViews(ctx, r, replyRows)
	if err != nil {
		return nil, err
	}

	parents, err := r.Lineage.ListParents(ctx, model.KindPost, post.ID)
	if err != nil {
		return nil, errs.Transport(err, "load lineage for post %s", post.ID)
	}
	var srcPosts, srcIdeas []string
	for _, e := range parents {
		switch e.ParentKind {
		case model.KindPost:
			srcPosts = append(srcPosts, e.ParentID)
		case model.KindIdea:
			srcIdeas = append(srcIdeas, e.ParentID)
		}
	}
	children, err := r.Lineage.ListChildren(ctx, model.KindPost, post.ID)
	if err != nil {
		return nil, errs.Transport(err, "load derived content for post %s", post.ID)
	}
	var derivedPosts, derivedIdeas []string
	for _, e := range children {
		switch e.ChildKind {
		case model.KindPost:
			derivedPosts = append(derivedPosts, e.ChildID)
		case model.KindIdea:
			derivedIdeas = append(derivedIdeas, e.ChildID)
		}
	}

	view := transform.NewPost(post, transform.PostParts{
		Author:       author,
		Supporters:   supporters,
		Replies:      replies,
		SourcePosts:  srcPosts,
		SourceIdeas:  srcIdeas,
		DerivedPosts: derivedPosts,
		DerivedIdeas: derivedIdeas,
	})
	return &view, nil
}
