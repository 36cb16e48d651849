package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/wordnest/vocab_api/dto"
	"github.com/wordnest/vocab_api/shared"
)

type ProgressHandler struct {
	progressSvc ProgressServiceInterface
}

func NewProgressHandler(progressSvc ProgressServiceInterface) *ProgressHandler {
	return &ProgressHandler{progressSvc: progressSvc}
}

// @Summary Dashboard
// @Description Today's study summary, streaks and level progress, recomputed on every read
// @Tags progress
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.DashboardResponse}
// @Router /api/v1/dashboard [get]
func (h *ProgressHandler) Dashboard(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.progressSvc.Dashboard(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Get settings
// @Tags progress
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.SettingsResponse}
// @Router /api/v1/settings [get]
func (h *ProgressHandler) GetSettings(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.progressSvc.GetSettings(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Update settings
// @Tags progress
// @Accept json
// @Produce json
// @Security Bearer
// @Param settings body dto.UpdateSettingsRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.SettingsResponse}
// @Router /api/v1/settings [put]
func (h *ProgressHandler) UpdateSettings(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return shared.NewBadRequestError(err, "Invalid settings").
			WithData(dto.FormatValidationErrors(err))
	}

	resp, err := h.progressSvc.UpdateSettings(userID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Settings updated", resp)
}

// @Summary Leaderboard
// @Description XP ranking across the profiles on this install
// @Tags progress
// @Produce json
// @Security Bearer
// @Param limit query int false "Entries to return (default 10)"
// @Success 200 {object} shared.Response{data=dto.LeaderboardResponse}
// @Router /api/v1/leaderboard [get]
func (h *ProgressHandler) Leaderboard(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.progressSvc.Leaderboard(userID, c.QueryInt("limit", 10))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Reset profile
// @Description Wipe the profile's words, stats and settings and start over
// @Tags progress
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/profile/reset [post]
func (h *ProgressHandler) ResetProfile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	if err := h.progressSvc.ResetProfile(userID); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Profile reset", nil)
}
