package controller

import (
	"io"

	"pdf-insight-be/internal/pkg/serverutils"
	"pdf-insight-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Progress(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type documentController struct {
	uploadService   service.IUploadService
	documentService service.IDocumentService
}

func NewDocumentController(uploadService service.IUploadService, documentService service.IDocumentService) IDocumentController {
	return &documentController{
		uploadService:   uploadService,
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/documents")
	h.Post("/upload", c.Upload)
	h.Get("/upload/:uploadId/progress", c.Progress)
	h.Get("/", c.List)
	h.Get("/:id", c.Show)
	h.Delete("/:id", c.Delete)
}

// currentIdentity pulls the authenticated user out of the request locals.
func currentIdentity(ctx *fiber.Ctx) (uuid.UUID, string, error) {
	userIDStr, _ := ctx.Locals("user_id").(string)
	userEmail, _ := ctx.Locals("user_email").(string)

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, "", fiber.ErrUnauthorized
	}
	return userID, userEmail, nil
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	userID, userEmail, err := currentIdentity(ctx)
	if err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile("pdf")
	if err != nil {
		return serverutils.Fail(ctx, fiber.StatusBadRequest, "Missing 'pdf' file field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return serverutils.Fail(ctx, fiber.StatusBadRequest, "Unable to read uploaded file")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return serverutils.Fail(ctx, fiber.StatusBadRequest, "Unable to read uploaded file")
	}

	// Optional client-chosen id so progress can be polled mid-upload.
	res, err := c.uploadService.Upload(
		ctx.UserContext(),
		userID,
		userEmail,
		ctx.FormValue("uploadId"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		content,
	)
	if err != nil {
		return err
	}
	return serverutils.OK(ctx, "Document analyzed", res)
}

func (c *documentController) Progress(ctx *fiber.Ctx) error {
	res, err := c.uploadService.Progress(ctx.Params("uploadId"))
	if err != nil {
		return err
	}
	return serverutils.OK(ctx, "Upload progress", res)
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	userID, _, err := currentIdentity(ctx)
	if err != nil {
		return err
	}

	res, err := c.documentService.List(ctx.UserContext(), userID)
	if err != nil {
		return err
	}
	return serverutils.OK(ctx, "Documents fetched", res)
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	userID, _, err := currentIdentity(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.Fail(ctx, fiber.StatusBadRequest, "Invalid document id")
	}

	res, err := c.documentService.Show(ctx.UserContext(), userID, id)
	if err != nil {
		return err
	}
	if res == nil {
		return serverutils.Fail(ctx, fiber.StatusNotFound, "Document not found")
	}
	return serverutils.OK(ctx, "Document fetched", res)
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	userID, userEmail, err := currentIdentity(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.Fail(ctx, fiber.StatusBadRequest, "Invalid document id")
	}

	if err := c.documentService.Delete(ctx.UserContext(), userID, userEmail, id); err != nil {
		return err
	}
	return serverutils.OK[any](ctx, "Document deleted", nil)
}
