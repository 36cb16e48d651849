package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/wordnest/vocab_api/dto"
	"github.com/wordnest/vocab_api/shared"
)

type SpeechHandler struct {
	speechSvc SpeechServiceInterface
}

func NewSpeechHandler(speechSvc SpeechServiceInterface) *SpeechHandler {
	return &SpeechHandler{speechSvc: speechSvc}
}

// @Summary Speak text
// @Description Synthesize pronunciation audio for a word or sentence
// @Tags speech
// @Accept json
// @Produce audio/mpeg
// @Security Bearer
// @Param speakRequest body dto.SpeakRequest true "Text, language and rate"
// @Success 200 {string} string "mp3 audio"
// @Router /api/v1/speech [post]
func (h *SpeechHandler) Speak(c *fiber.Ctx) error {
	var req dto.SpeakRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return shared.NewBadRequestError(err, "Invalid speech request").
			WithData(dto.FormatValidationErrors(err))
	}

	audio, err := h.speechSvc.Speak(c.Context(), req.Text, req.Language, req.Rate)
	if err != nil {
		return err
	}

	c.Set("Content-Type", "audio/mpeg")
	c.Set("Cache-Control", "max-age=86400")
	return c.Send(audio)
}
