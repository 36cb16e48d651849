package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/wordnest/vocab_api/dto"
	"github.com/wordnest/vocab_api/shared"
)

type WordHandler struct {
	progressSvc ProgressServiceInterface
	importerSvc ImporterServiceInterface
	aiSvc       AIServiceInterface
	mediaSvc    MediaServiceInterface
}

func NewWordHandler(progressSvc ProgressServiceInterface, importerSvc ImporterServiceInterface, aiSvc AIServiceInterface, mediaSvc MediaServiceInterface) *WordHandler {
	return &WordHandler{
		progressSvc: progressSvc,
		importerSvc: importerSvc,
		aiSvc:       aiSvc,
		mediaSvc:    mediaSvc,
	}
}

// @Summary List words
// @Description List the profile's word catalog, optionally scoped by grade and unit
// @Tags words
// @Produce json
// @Security Bearer
// @Param grade query int false "Grade (0 = all)"
// @Param unit query int false "Unit"
// @Success 200 {object} shared.Response{data=dto.WordCollectionResponse}
// @Router /api/v1/words [get]
func (h *WordHandler) ListWords(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	grade := c.QueryInt("grade", 0)
	var unit *int
	if u := c.Query("unit"); u != "" {
		if n, err := strconv.Atoi(u); err == nil {
			unit = &n
		}
	}

	resp, err := h.progressSvc.ListWords(userID, grade, unit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Add a word
// @Description Add a custom word to the catalog
// @Tags words
// @Accept json
// @Produce json
// @Security Bearer
// @Param word body dto.CreateWordRequest true "Word details"
// @Success 201 {object} shared.Response{data=dto.WordResponse}
// @Router /api/v1/words [post]
func (h *WordHandler) CreateWord(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CreateWordRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := dto.GetValidator().Struct(req); err != nil {
		return shared.NewBadRequestError(err, "Invalid word").
			WithData(dto.FormatValidationErrors(err))
	}

	resp, err := h.progressSvc.CreateWord(userID, &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, "Word added", resp)
}

// @Summary Get a word
// @Tags words
// @Produce json
// @Security Bearer
// @Param wordId path string true "Word ID"
// @Success 200 {object} shared.Response{data=dto.WordResponse}
// @Router /api/v1/words/{wordId} [get]
func (h *WordHandler) GetWord(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.progressSvc.GetWordDetail(userID, c.Params("wordId"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Update a word
// @Tags words
// @Accept json
// @Produce json
// @Security Bearer
// @Param wordId path string true "Word ID"
// @Param word body dto.UpdateWordRequest true "Fields to update"
// @Success 200 {object} shared.Response{data=dto.WordResponse}
// @Router /api/v1/words/{wordId} [put]
func (h *WordHandler) UpdateWord(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.UpdateWordRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}

	resp, err := h.progressSvc.UpdateWordDetail(userID, c.Params("wordId"), &req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Word updated", resp)
}

// @Summary Delete a word
// @Description Delete a custom word and its stats
// @Tags words
// @Produce json
// @Security Bearer
// @Param wordId path string true "Word ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/words/{wordId} [delete]
func (h *WordHandler) DeleteWord(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	if err := h.progressSvc.DeleteWordDetail(userID, c.Params("wordId")); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Word deleted", nil)
}

// @Summary Mark a word learned
// @Description Stamp today's review on the word and advance the streak
// @Tags words
// @Produce json
// @Security Bearer
// @Param wordId path string true "Word ID"
// @Success 200 {object} shared.Response{data=nil}
// @Router /api/v1/words/{wordId}/learned [post]
func (h *WordHandler) MarkLearned(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	if err := h.progressSvc.RecordWordLearned(userID, c.Params("wordId")); err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Review recorded", nil)
}

// @Summary Toggle mastered
// @Tags words
// @Produce json
// @Security Bearer
// @Param wordId path string true "Word ID"
// @Success 200 {object} shared.Response{data=dto.WordResponse}
// @Router /api/v1/words/{wordId}/mastered [post]
func (h *WordHandler) ToggleMastered(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.progressSvc.ToggleMastered(userID, c.Params("wordId"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Success", resp)
}

// @Summary Import a word list
// @Description Import words from an xlsx workbook
// @Tags words
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param file formData file true "xlsx workbook"
// @Success 200 {object} shared.Response{data=dto.ImportWordsResponse}
// @Router /api/v1/words/import [post]
func (h *WordHandler) ImportWords(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return shared.NewBadRequestError(err, "A file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return shared.NewBadRequestError(err, "Could not open the uploaded file")
	}
	defer file.Close()

	resp, err := h.importerSvc.ImportXLSX(userID, file)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Import finished", resp)
}

// @Summary Generate a word illustration
// @Description Ask the AI provider for an illustration and attach it to the word
// @Tags words
// @Produce json
// @Security Bearer
// @Param wordId path string true "Word ID"
// @Success 200 {object} shared.Response{data=map[string]string}
// @Router /api/v1/words/{wordId}/image [post]
func (h *WordHandler) GenerateImage(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)
	wordID := c.Params("wordId")

	word, err := h.progressSvc.GetWordDetail(userID, wordID)
	if err != nil {
		return err
	}

	data, err := h.aiSvc.GenerateImage(c.Context(), word.Term)
	if err != nil {
		return err
	}

	url, err := h.mediaSvc.StoreWordImage(userID, wordID, data, "image/png")
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, "Image generated", map[string]string{"image_url": url})
}
