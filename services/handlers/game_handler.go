package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/wordnest/vocab_api/dto"
	"github.com/wordnest/vocab_api/shared"
)

type GameHandler struct {
	gameSvc GameServiceInterface
}

func NewGameHandler(gameSvc GameServiceInterface) *GameHandler {
	return &GameHandler{gameSvc: gameSvc}
}

// @Summary Start a mini-game
// @Description Create a session for one of the seven games over the scoped word pool
// @Tags games
// @Accept json
// @Produce json
// @Security Bearer
// @Param startRequest body dto.StartGameRequest true "Game and scope"
// @Success 200 {object} shared.Response{data=dto.GameStateResponse}
// @Router /api/v1/games/start [post]
func (h *GameHandler) Start(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.StartGameRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return shared.NewBadRequestError(err, "Invalid game request").
			WithData(dto.FormatValidationErrors(err))
	}

	resp, err := h.gameSvc.StartGame(userID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Game started", resp)
}

// @Summary Submit game input
// @Description Judge typed input or a shot at an on-screen item
// @Tags games
// @Accept json
// @Produce json
// @Security Bearer
// @Param answerRequest body dto.GameAnswerRequest true "Item and/or answer"
// @Success 200 {object} shared.Response{data=dto.GameStateResponse}
// @Router /api/v1/games/answer [post]
func (h *GameHandler) Answer(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.GameAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	resp, err := h.gameSvc.SubmitAnswer(userID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Submit a tile pair
// @Description Judge a two-tile selection in the matching games
// @Tags games
// @Accept json
// @Produce json
// @Security Bearer
// @Param pairRequest body dto.GamePairRequest true "Selected tiles"
// @Success 200 {object} shared.Response{data=dto.GameStateResponse}
// @Router /api/v1/games/pair [post]
func (h *GameHandler) Pair(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.GamePairRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return shared.NewBadRequestError(err, "Invalid pair request").
			WithData(dto.FormatValidationErrors(err))
	}

	resp, err := h.gameSvc.SubmitPair(userID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Game state
// @Tags games
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.GameStateResponse}
// @Router /api/v1/games [get]
func (h *GameHandler) State(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.gameSvc.State(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Game result
// @Description Collect the finished game's score and XP
// @Tags games
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.GameResultResponse}
// @Router /api/v1/games/result [post]
func (h *GameHandler) Result(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.gameSvc.Result(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Game finished", resp)
}

// @Summary Quit the game
// @Description Tear the session down; pending item timers are cancelled
// @Tags games
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/games [delete]
func (h *GameHandler) Quit(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	h.gameSvc.Teardown(userID)
	return shared.ResponseJSON(c, http.StatusOK, "Game abandoned", nil)
}
