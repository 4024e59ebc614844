package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-it/helpdesk/internal/api/dto"
	"github.com/campus-it/helpdesk/internal/storage"
	apperrors "github.com/campus-it/helpdesk/pkg/util/errorutil"
)

// AttachmentsHandler accepts uploads and returns opaque references for use
// in ticket creation.
type AttachmentsHandler struct {
	store *storage.AttachmentStore
}

// NewAttachmentsHandler constructs handler.
func NewAttachmentsHandler(store *storage.AttachmentStore) *AttachmentsHandler {
	return &AttachmentsHandler{store: store}
}

// Upload POST /attachments (multipart field "file").
func (h *AttachmentsHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file required", nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewValidationError("unreadable file", nil)
	}
	defer file.Close()

	reference, err := h.store.Save(fileHeader.Filename, file)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.AttachmentUploadResponse{Reference: reference},
	})
}
