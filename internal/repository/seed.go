package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ideosphere/ideosphere/internal/model"
	"github.com/ideosphere/ideosphere/internal/transform"
)

// SeedDemo loads the demo dataset through any set of storage ports. The data
// goes through the same raw-shape transformation as an upstream import
// would, so the seed path exercises the wire contract.
func SeedDemo(ctx context.Context, users UserRepository, ideas IdeaRepository, posts PostRepository, feedback FeedbackRepository, lineage LineageRepository) error {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	rawUsers := []transform.RawUser{
		{ID: "user-1", Name: "Claire Dubois", Email: "claire@example.org", Bio: "Urbaniste de quartier", Location: "Lyon 7e", BirthYear: 1988, IsRegistered: true, CreatedAt: base},
		{ID: "user-2", Name: "Marc Petit", Email: "marc@example.org", Location: "Lyon 3e", IsRegistered: true, CreatedAt: base.Add(time.Hour)},
		{ID: "user-3", Name: "Invité", Email: "guest-3@example.org", IsRegistered: false, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, raw := range rawUsers {
		u, err := transform.FromRawUser(raw)
		if err != nil {
			return fmt.Errorf("seed user: %w", err)
		}
		if err := users.Create(ctx, u); err != nil {
			return err
		}
	}

	rawPosts := []transform.RawPost{
		{
			ID: "post-1", AuthorID: "user-2",
			Content:   "Il faudrait plus d'arbres sur l'avenue #Ville2024 #vegetalisation",
			Tags:      []string{"ville2024", "vegetalisation"},
			Location:  "Lyon 7e",
			CreatedAt: base.Add(3 * time.Hour),
		},
		{
			ID: "post-2", AuthorID: "user-3",
			Content:   "Le marché du dimanche déborde sur la piste cyclable",
			Tags:      []string{},
			Location:  "Lyon 3e",
			CreatedAt: base.Add(4 * time.Hour),
			Comments: []transform.RawComment{
				{ID: "reply-1", AuthorID: "user-1", Content: "Vu aussi, surtout côté quai", CreatedAt: base.Add(5 * time.Hour)},
			},
		},
		{
			ID: "dt1", AuthorID: "user-1", Title: "Quel arrosage pour les jardinières ?",
			Content: "Qui prend en charge l'arrosage l'été ?", TopicType: model.TopicQuestion,
			IdeaID: "idea-1", CreatedAt: base.Add(6 * time.Hour),
			Comments: []transform.RawComment{
				{ID: "reply-2", AuthorID: "user-2", Content: "Le collectif du square s'en occupe", IsAnswer: true, CreatedAt: base.Add(7 * time.Hour)},
			},
		},
	}
	for _, raw := range rawPosts {
		p, replies, err := transform.FromRawPost(raw)
		if err != nil {
			return fmt.Errorf("seed post: %w", err)
		}
		if err := posts.Create(ctx, p); err != nil {
			return err
		}
		for i := range replies {
			if err := posts.CreateReply(ctx, &replies[i]); err != nil {
				return err
			}
		}
		for _, uid := range raw.SupporterIDs {
			fb := model.Feedback{UserID: uid, Kind: model.KindPost, ContentID: p.ID, Type: model.FeedbackSupports}
			if err := feedback.Create(ctx, &fb); err != nil {
				return err
			}
		}
	}

	rawIdeas := []transform.RawIdea{
		{
			ID: "idea-1", Title: "Végétaliser l'avenue Berthelot",
			Summary:     "Des jardinières et des arbres d'alignement sur toute l'avenue.",
			Description: "## Pourquoi\nL'avenue est une île de chaleur...",
			Status:      model.StatusPublished,
			CreatorIDs:  []string{"user-1"},
			Tags:        []string{"vegetalisation", "ville2024"},
			Location:    "Lyon 7e",
			RatingCriteria: []transform.RawCriterion{
				{ID: "crit-impact", Name: "Impact"},
				{ID: "crit-cost", Name: "Coût"},
			},
			Ratings: []transform.RawRating{
				{CriterionID: "crit-impact", UserID: "user-2", Value: 5},
				{CriterionID: "crit-cost", UserID: "user-2", Value: 3},
			},
			SupporterIDs: []string{"user-2", "user-3"},
			SourcePosts:  []string{"post-1"},
			CreatedAt:    base.Add(8 * time.Hour),
		},
		{
			ID: "idea-2", Title: "Version ombrière photovoltaïque",
			Summary:      "Variante de l'idée 1 avec ombrières solaires.",
			Status:       model.StatusPublished,
			CreatorIDs:   []string{"user-2"},
			Tags:         []string{"energie"},
			SupporterIDs: []string{"user-1"},
			SourceIdeas:  []string{"idea-1"},
			CreatedAt:    base.Add(9 * time.Hour),
		},
	}
	for _, raw := range rawIdeas {
		idea, creators, criteria, ratings, err := transform.FromRawIdea(raw)
		if err != nil {
			return fmt.Errorf("seed idea: %w", err)
		}
		if err := ideas.Create(ctx, idea, creators, criteria); err != nil {
			return err
		}
		for i := range ratings {
			if err := ideas.UpsertRating(ctx, &ratings[i]); err != nil {
				return err
			}
		}
		for _, uid := range raw.SupporterIDs {
			fb := model.Feedback{UserID: uid, Kind: model.KindIdea, ContentID: idea.ID, Type: model.FeedbackSupports}
			if err := feedback.Create(ctx, &fb); err != nil {
				return err
			}
		}
		var edges []model.LineageEdge
		pos := 0
		for _, src := range raw.SourceIdeas {
			edges = append(edges, model.LineageEdge{ParentKind: model.KindIdea, ParentID: src, ChildKind: model.KindIdea, ChildID: idea.ID, Position: pos})
			pos++
		}
		for _, src := range raw.SourcePosts {
			edges = append(edges, model.LineageEdge{ParentKind: model.KindPost, ParentID: src, ChildKind: model.KindIdea, ChildID: idea.ID, Position: pos})
			pos++
		}
		for _, src := range raw.SourceDiscussions {
			edges = append(edges, model.LineageEdge{ParentKind: model.KindDiscussion, ParentID: src, ChildKind: model.KindIdea, ChildID: idea.ID, Position: pos})
			pos++
		}
		if err := lineage.CreateEdges(ctx, edges); err != nil {
			return err
		}
	}

	return nil
}
