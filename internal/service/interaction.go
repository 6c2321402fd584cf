package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ideosphere/ideosphere/internal/cache"
	"github.com/ideosphere/ideosphere/internal/model"
	"github.com/ideosphere/ideosphere/internal/transform"
	"github.com/ideosphere/ideosphere/pkg/errs"
	"github.com/ideosphere/ideosphere/pkg/logger"
)

// InteractionService implements the mutating interactions: support, report,
// rating, replies, upvotes, accepted answers.
type InteractionService interface {
	// ToggleSupport resolves the user's current stance server-side and
	// flips it, so a stale caller-supplied state cannot desync the set.
	ToggleSupport(ctx context.Context, userID, contentRef string) (bool, error)
	// SetSupport is the explicit form backing POST/DELETE /feedback.
	SetSupport(ctx context.Context, userID, contentRef string, on bool) error
	SetReport(ctx context.Context, userID, contentRef string, on bool) error
	RateIdea(ctx context.Context, ideaID, userID, criterionID string, value int) ([]transform.RatingEntry, error)
	AddReply(ctx context.Context, postID, authorID, content string) (*transform.Reply, error)
	ToggleReplyUpvote(ctx context.Context, postID, replyID, userID string) (bool, error)
	MarkAsAnswer(ctx context.Context, postID, replyID, actorID string) error
}

type interactionService struct {
	repos Repos
	cache *cache.SmartCache
}

func NewInteractionService(repos Repos, c *cache.SmartCache) InteractionService {
	return &interactionService{repos: repos, cache: c}
}

// resolveContent parses a qualified ref and checks the target exists.
// Discussion refs resolve against the posts table (topic posts).
func (s *interactionService) resolveContent(ctx context.Context, contentRef string) (model.Ref, error) {
	ref, err := model.ParseRef(contentRef, "")
	if err != nil {
		return model.Ref{}, errs.Validation("bad content id %q: %v", contentRef, err)
	}
	switch ref.Kind {
	case model.KindIdea:
		idea, err := s.repos.Ideas.GetByID(ctx, ref.Key)
		if err != nil {
			return model.Ref{}, errs.Transport(err, "resolve %s", contentRef)
		}
		if idea == nil {
			return model.Ref{}, errs.NotFound("%s not found", contentRef)
		}
	case model.KindPost, model.KindDiscussion:
		post, err := s.repos.Posts.GetByID(ctx, ref.Key)
		if err != nil {
			return model.Ref{}, errs.Transport(err, "resolve %s", contentRef)
		}
		if post == nil {
			return model.Ref{}, errs.NotFound("%s not found", contentRef)
		}
	default:
		return model.Ref{}, errs.Validation("unsupported content kind %q", ref.Kind)
	}
	return ref, nil
}

func (s *interactionService) invalidateContent(ctx context.Context, ref model.Ref) {
	switch ref.Kind {
	case model.KindIdea:
		s.cache.InvalidateIdeaRelated(ctx, ref.Key)
	case model.KindPost:
		s.cache.InvalidatePostRelated(ctx, ref.Key)
	case model.KindDiscussion:
		s.cache.InvalidateDiscussionRelated(ctx, ref.Key, "")
	}
}

func (s *interactionService) ToggleSupport(ctx context.Context, userID, contentRef string) (bool, error) {
	ref, err := s.resolveContent(ctx, contentRef)
	if err != nil {
		return false, err
	}
	typ := model.FeedbackSupports
	if ref.Kind == model.KindDiscussion {
		typ = model.FeedbackLikes
	}
	supporting, err := s.repos.Feedback.Exists(ctx, userID, ref.Kind, ref.Key, typ)
	if err != nil {
		return false, errs.Transport(err, "read support state")
	}
	if supporting {
		if err := s.repos.Feedback.Delete(ctx, userID, ref.Kind, ref.Key, typ); err != nil {
			return false, errs.Transport(err, "withdraw support")
		}
	} else {
		fb := model.Feedback{UserID: userID, Kind: ref.Kind, ContentID: ref.Key, Type: typ}
		if err := s.repos.Feedback.Create(ctx, &fb); err != nil {
			return false, errs.Transport(err, "record support")
		}
	}
	s.invalidateContent(ctx, ref)
	s.cache.InvalidateUserRelated(ctx, userID)
	return !supporting, nil
}

func (s *interactionService) SetSupport(ctx context.Context, userID, contentRef string, on bool) error {
	return s.setFeedback(ctx, userID, contentRef, model.FeedbackSupports, on)
}

func (s *interactionService) SetReport(ctx context.Context, userID, contentRef string, on bool) error {
	return s.setFeedback(ctx, userID, contentRef, model.FeedbackReports, on)
}

func (s *interactionService) setFeedback(ctx context.Context, userID, contentRef, typ string, on bool) error {
	ref, err := s.resolveContent(ctx, contentRef)
	if err != nil {
		return err
	}
	if on {
		fb := model.Feedback{UserID: userID, Kind: ref.Kind, ContentID: ref.Key, Type: typ}
		if err := s.repos.Feedback.Create(ctx, &fb); err != nil {
			return errs.Transport(err, "record %s", typ)
		}
	} else {
		if err := s.repos.Feedback.Delete(ctx, userID, ref.Kind, ref.Key, typ); err != nil {
			return errs.Transport(err, "withdraw %s", typ)
		}
	}
	if typ == model.FeedbackReports {
		logger.Warn("content reported", zap.String("content", ref.String()), zap.String("user", userID))
	}
	s.invalidateContent(ctx, ref)
	s.cache.InvalidateUserRelated(ctx, userID)
	return nil
}

// RateIdea validates bounds and criterion membership before touching
// storage; an invalid call leaves ratings untouched. Returns the idea's full
// rating list after the write.
func (s *interactionService) RateIdea(ctx context.Context, ideaID, userID, criterionID string, value int) ([]transform.RatingEntry, error) {
	if value < 1 || value > 5 {
		return nil, errs.Validation("rating value %d out of range [1,5]", value)
	}
	idea, err := s.repos.Ideas.GetByID(ctx, ideaID)
	if err != nil {
		return nil, errs.Transport(err, "load idea %s", ideaID)
	}
	if idea == nil {
		return nil, errs.NotFound("idea %s not found", ideaID)
	}
	criteria, err := s.repos.Ideas.ListCriteria(ctx, ideaID)
	if err != nil {
		return nil, errs.Transport(err, "load criteria for idea %s", ideaID)
	}
	known := false
	for _, c := range criteria {
		if c.ID == criterionID {
			known = true
			break
		}
	}
	if !known {
		return nil, errs.Validation("criterion %s does not exist on idea %s", criterionID, ideaID)
	}

	rating := &model.Rating{IdeaID: ideaID, CriterionID: criterionID, UserID: userID, Value: value}
	if err := s.repos.Ideas.UpsertRating(ctx, rating); err != nil {
		return nil, errs.Transport(err, "store rating")
	}
	s.cache.InvalidateIdeaRelated(ctx, ideaID)

	rows, err := s.repos.Ideas.ListRatings(ctx, ideaID)
	if err != nil {
		return nil, errs.Transport(err, "reload ratings")
	}
	entries := make([]transform.RatingEntry, len(rows))
	for i, r := range rows {
		entries[i] = transform.RatingEntry{CriterionID: r.CriterionID, UserID: r.UserID, Value: r.Value}
	}
	return entries, nil
}

func (s *interactionService) AddReply(ctx context.Context, postID, authorID, content string) (*transform.Reply, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errs.Validation("reply content is required")
	}
	post, err := s.repos.Posts.GetByID(ctx, postID)
	if err != nil {
		return nil, errs.Transport(err, "load post %s", postID)
	}
	if post == nil {
		return nil, errs.NotFound("post %s not found", postID)
	}
	author, err := s.repos.Users.GetByID(ctx, authorID)
	if err != nil {
		return nil, errs.Transport(err, "resolve author %s", authorID)
	}
	if author == nil {
		return nil, errs.NotFound("author %s not found", authorID)
	}

	reply := &model.PostReply{PostID: postID, AuthorID: authorID, Content: content}
	if err := s.repos.Posts.CreateReply(ctx, reply); err != nil {
		return nil, errs.Transport(err, "create reply")
	}

	if post.IsTopic() {
		s.cache.InvalidateDiscussionRelated(ctx, postID, post.IdeaID)
	}
	s.cache.InvalidatePostRelated(ctx, postID)
	s.cache.InvalidateUserRelated(ctx, authorID)
	view := transform.NewReply(reply, author, nil)
	return &view, nil
}

func (s *interactionService) ToggleReplyUpvote(ctx context.Context, postID, replyID, userID string) (bool, error) {
	reply, err := s.repos.Posts.GetReply(ctx, replyID)
	if err != nil {
		return false, errs.Transport(err, "load reply %s", replyID)
	}
	if reply == nil || reply.PostID != postID {
		return false, errs.NotFound("reply %s not found on post %s", replyID, postID)
	}

	liked, err := s.repos.Feedback.Exists(ctx, userID, model.KindReply, replyID, model.FeedbackLikes)
	if err != nil {
		return false, errs.Transport(err, "read upvote state")
	}
	if liked {
		err = s.repos.Feedback.Delete(ctx, userID, model.KindReply, replyID, model.FeedbackLikes)
	} else {
		fb := model.Feedback{UserID: userID, Kind: model.KindReply, ContentID: replyID, Type: model.FeedbackLikes}
		err = s.repos.Feedback.Create(ctx, &fb)
	}
	if err != nil {
		return false, errs.Transport(err, "toggle upvote")
	}
	s.cache.InvalidatePostRelated(ctx, postID)
	s.cache.Invalidate(ctx, cache.Discussion, postID)
	return !liked, nil
}

// MarkAsAnswer accepts a reply as the answer of a question topic. Only the
// topic author may accept, and only question topics have answers.
func (s *interactionService) MarkAsAnswer(ctx context.Context, postID, replyID, actorID string) error {
	post, err := s.repos.Posts.GetByID(ctx, postID)
	if err != nil {
		return errs.Transport(err, "load post %s", postID)
	}
	if post == nil {
		return errs.NotFound("post %s not found", postID)
	}
	if post.TopicType != model.TopicQuestion {
		return errs.Validation("post %s is not a question topic", postID)
	}
	if post.AuthorID != actorID {
		return errs.Validation("only the topic author can accept an answer")
	}
	reply, err := s.repos.Posts.GetReply(ctx, replyID)
	if err != nil {
		return errs.Transport(err, "load reply %s", replyID)
	}
	if reply == nil || reply.PostID != postID {
		return errs.NotFound("reply %s not found on post %s", replyID, postID)
	}

	if err := s.repos.Posts.SetAnswer(ctx, postID, replyID); err != nil {
		return errs.Transport(err, "mark answer")
	}
	s.cache.InvalidatePostRelated(ctx, postID)
	s.cache.InvalidateDiscussionRelated(ctx, postID, post.IdeaID)
	return nil
}
