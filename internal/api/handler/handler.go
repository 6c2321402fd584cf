package handler

import (
	"github.com/ideosphere/ideosphere/internal/service"
)

// Handler groups the HTTP handlers over the service layer.
type Handler struct {
	content     service.ContentService
	interaction service.InteractionService
	lineage     service.LineageService
	feed        service.FeedService
	users       service.UserService
}

func NewHandler(
	content service.ContentService,
	interaction service.InteractionService,
	lineage service.LineageService,
	feed service.FeedService,
	users service.UserService,
) *Handler {
	return &Handler{
		content:     content,
		interaction: interaction,
		lineage:     lineage,
		feed:        feed,
		users:       users,
	}
}

// firstNonEmpty picks the acting user: the explicit body field wins,
// the authenticated subject from the auth middleware is the fallback.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
