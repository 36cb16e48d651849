package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/wordnest/vocab_api/dto"
	"github.com/wordnest/vocab_api/shared"
)

type QuizHandler struct {
	quizSvc QuizServiceInterface
}

func NewQuizHandler(quizSvc QuizServiceInterface) *QuizHandler {
	return &QuizHandler{quizSvc: quizSvc}
}

// @Summary Start a quiz
// @Description Sample up to 10 words from the scoped pool and enter the playing phase
// @Tags quiz
// @Accept json
// @Produce json
// @Security Bearer
// @Param startRequest body dto.StartQuizRequest true "Quiz type and scope"
// @Success 200 {object} shared.Response{data=dto.QuizStateResponse}
// @Router /api/v1/quiz/start [post]
func (h *QuizHandler) Start(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.StartQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return shared.NewBadRequestError(err, "Invalid quiz request").
			WithData(dto.FormatValidationErrors(err))
	}

	resp, err := h.quizSvc.StartQuiz(userID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Quiz started", resp)
}

// @Summary Submit an answer
// @Description Judge the answer for the current question
// @Tags quiz
// @Accept json
// @Produce json
// @Security Bearer
// @Param answerRequest body dto.SubmitAnswerRequest true "Answer"
// @Success 200 {object} shared.Response{data=dto.QuizStateResponse}
// @Router /api/v1/quiz/answer [post]
func (h *QuizHandler) Answer(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	resp, err := h.quizSvc.SubmitAnswer(userID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Advance to the next question
// @Tags quiz
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.QuizStateResponse}
// @Router /api/v1/quiz/advance [post]
func (h *QuizHandler) Advance(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.quizSvc.Advance(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Restart the quiz
// @Description Abandon the current run and start a fresh one over the same scope
// @Tags quiz
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.QuizStateResponse}
// @Router /api/v1/quiz/restart [post]
func (h *QuizHandler) Restart(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.quizSvc.Restart(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Quiz restarted", resp)
}

// @Summary Quiz state
// @Tags quiz
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.QuizStateResponse}
// @Router /api/v1/quiz [get]
func (h *QuizHandler) State(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.quizSvc.State(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Quiz result
// @Description Collect the finished quiz's score, XP and mistakes
// @Tags quiz
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.QuizResultResponse}
// @Router /api/v1/quiz/result [post]
func (h *QuizHandler) Result(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.quizSvc.Result(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Quiz finished", resp)
}

// @Summary Abandon the quiz
// @Tags quiz
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/quiz [delete]
func (h *QuizHandler) Abandon(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	h.quizSvc.Abandon(userID)
	return shared.ResponseJSON(c, http.StatusOK, "Quiz abandoned", nil)
}
