package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"github.com/wordnest/vocab_api/dto"
	"github.com/wordnest/vocab_api/shared"
)

type AIHandler struct {
	aiSvc       AIServiceInterface
	progressSvc ProgressServiceInterface
}

func NewAIHandler(aiSvc AIServiceInterface, progressSvc ProgressServiceInterface) *AIHandler {
	return &AIHandler{aiSvc: aiSvc, progressSvc: progressSvc}
}

// @Summary AI availability
// @Description Whether AI features are usable or cooling down after quota exhaustion
// @Tags ai
// @Produce json
// @Security Bearer
// @Success 200 {object} shared.Response{data=dto.AIStatusResponse}
// @Router /api/v1/ai/status [get]
func (h *AIHandler) Status(c *fiber.Ctx) error {
	return shared.ResponseJSON(c, http.StatusOK, "Success", h.aiSvc.Status())
}

// @Summary Look a word up
// @Description Ask the AI provider for pronunciation, meaning and an example sentence
// @Tags ai
// @Accept json
// @Produce json
// @Security Bearer
// @Param lookupRequest body dto.WordLookupRequest true "Term to look up"
// @Success 200 {object} shared.Response{data=dto.WordLookupResult}
// @Router /api/v1/ai/lookup [post]
func (h *AIHandler) Lookup(c *fiber.Ctx) error {
	var req dto.WordLookupRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return shared.NewBadRequestError(err, "Invalid lookup request").
			WithData(dto.FormatValidationErrors(err))
	}

	resp, err := h.aiSvc.LookupWord(c.Context(), req.Term)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Regenerate an example sentence
// @Description Replace a word's example sentence with a freshly generated one
// @Tags ai
// @Accept json
// @Produce json
// @Security Bearer
// @Param exampleRequest body dto.RegenerateExampleRequest true "Word to regenerate for"
// @Success 200 {object} shared.Response{data=dto.WordResponse}
// @Router /api/v1/ai/example [post]
func (h *AIHandler) RegenerateExample(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.RegenerateExampleRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request").
			WithData(dto.FormatValidationErrors(err))
	}

	word, err := h.progressSvc.GetWordDetail(userID, req.WordID)
	if err != nil {
		return err
	}

	result, err := h.aiSvc.RegenerateExample(c.Context(), word.Term, word.Meaning)
	if err != nil {
		return err
	}

	updated, err := h.progressSvc.UpdateWordDetail(userID, req.WordID, &dto.UpdateWordRequest{
		ExampleSentence:        &result.ExampleSentence,
		ExampleSentenceMeaning: &result.ExampleSentenceMeaning,
	})
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Example regenerated", updated)
}

// @Summary Summarize a passage
// @Tags ai
// @Accept json
// @Produce json
// @Security Bearer
// @Param summarizeRequest body dto.SummarizeRequest true "Text to summarize"
// @Success 200 {object} shared.Response{data=dto.SummarizeResult}
// @Router /api/v1/ai/summarize [post]
func (h *AIHandler) Summarize(c *fiber.Ctx) error {
	var req dto.SummarizeRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request").
			WithData(dto.FormatValidationErrors(err))
	}

	resp, err := h.aiSvc.Summarize(c.Context(), req.Text)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Chat with the tutor
// @Description Stream the AI tutor's reply as server-sent events
// @Tags ai
// @Accept json
// @Produce text/event-stream
// @Security Bearer
// @Param chatRequest body dto.ChatRequest true "Message to the tutor"
// @Success 200 {string} string "SSE stream of dto.ChatChunk"
// @Router /api/v1/ai/chat [post]
func (h *AIHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request").
			WithData(dto.FormatValidationErrors(err))
	}

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	message := req.Message
	aiSvc := h.aiSvc

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		out := make(chan dto.ChatChunk, 16)
		go aiSvc.Chat(context.Background(), message, out)

		for chunk := range out {
			payload, err := json.Marshal(chunk)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			if err := w.Flush(); err != nil {
				// client went away; drain so the producer can finish
				for range out {
				}
				return
			}
		}
	}))

	return nil
}
