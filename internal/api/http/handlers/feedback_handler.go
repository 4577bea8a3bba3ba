package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/zeakmc/gatekeeper/internal/domain"
	"github.com/zeakmc/gatekeeper/internal/service"
)

const defaultFeedbackLimit = 25

// FeedbackHandler exposes read-only feedback reporting for operators.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

// NewFeedbackHandler returns a new handler instance.
func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// Recent lists the most recent feedback entries for a guild.
func (h *FeedbackHandler) Recent(c *fiber.Ctx) error {
	guildID := c.Params("guild_id")
	limit := defaultFeedbackLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.feedback.Recent(c.UserContext(), guildID, limit)
	if err != nil {
		return err
	}

	items := make([]fiber.Map, 0, len(records))
	for i := range records {
		items = append(items, feedbackResponse(&records[i]))
	}
	return c.JSON(fiber.Map{"feedback": items})
}

// Stats reports aggregate feedback numbers, optionally filtered by staff
// member or category name.
func (h *FeedbackHandler) Stats(c *fiber.Ctx) error {
	guildID := c.Params("guild_id")

	var staffID, category *string
	if v := c.Query("staff_id"); v != "" {
		staffID = &v
	}
	if v := c.Query("category"); v != "" {
		category = &v
	}

	stats, err := h.feedback.Stats(c.UserContext(), guildID, staffID, category)
	if err != nil {
		return err
	}

	distribution := make(map[string]int64, len(stats.Distribution))
	for rating, count := range stats.Distribution {
		distribution[strconv.Itoa(rating)] = count
	}
	return c.JSON(fiber.Map{
		"count":        stats.Count,
		"average":      stats.AverageRating,
		"distribution": distribution,
	})
}

func feedbackResponse(f *domain.Feedback) fiber.Map {
	resp := fiber.Map{
		"id":           f.ID,
		"ticket_id":    f.TicketID,
		"user_id":      f.UserID,
		"rating":       f.Rating,
		"comment":      f.Comment,
		"category":     f.Category,
		"submitted_at": f.SubmittedAt,
	}
	if f.StaffID != nil {
		resp["staff_id"] = *f.StaffID
	}
	return resp
}
