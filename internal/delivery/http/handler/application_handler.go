package handler

import (
	"errors"
	"strconv"

	"cv-intake/internal/delivery/http/dto"
	"cv-intake/internal/delivery/http/middleware"
	"cv-intake/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	submit usecase.SubmissionUsecase
	list   usecase.ApplicationListUsecase
	apps   usecase.ApplicationUsecase
	resend usecase.ResendUsecase
}

func NewApplicationHandler(
	submit usecase.SubmissionUsecase,
	list usecase.ApplicationListUsecase,
	apps usecase.ApplicationUsecase,
	resend usecase.ResendUsecase,
) *ApplicationHandler {
	return &ApplicationHandler{submit: submit, list: list, apps: apps, resend: resend}
}

// HandleSubmit accepts the public multipart submission form.
func (h *ApplicationHandler) HandleSubmit(c fiber.Ctx) error {
	in := usecase.SubmissionInput{
		Name:  c.FormValue("name"),
		Email: c.FormValue("email"),
		Phone: c.FormValue("phone"),
	}

	// A missing file is reported by the usecase together with the other
	// missing fields, so the error here is deliberately swallowed.
	if fh, err := c.FormFile("cv"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return middleware.NewAppError(fiber.StatusInternalServerError, "could not read uploaded file", err)
		}
		defer f.Close()

		in.File = f
		in.FileName = fh.Filename
		in.ContentType = fh.Header.Get("Content-Type")
		in.Size = fh.Size
	}

	res, err := h.submit.Submit(c.Context(), in)
	if err != nil {
		return mapUsecaseError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SubmissionResponse{
		Success:       true,
		Message:       "Application submitted successfully",
		ApplicationID: res.ID.String(),
		WebhookSent:   res.WebhookSent,
	})
}

func (h *ApplicationHandler) HandleList(c fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid limit", err)
	}
	page, err := parseQueryInt(c, "page", 0)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid page", err)
	}

	result, err := h.list.ListApplications(c.Context(), usecase.ListParams{
		Page:   page,
		Limit:  limit,
		Status: c.Query("status"),
	})
	if err != nil {
		return mapUsecaseError(err)
	}

	items := make([]dto.ApplicationResponse, 0, len(result.Items))
	for _, app := range result.Items {
		items = append(items, dto.NewApplicationResponse(app))
	}

	return c.Status(fiber.StatusOK).JSON(dto.ListResponse{
		Success:    true,
		Data:       items,
		Pagination: result.Pagination,
	})
}

func (h *ApplicationHandler) HandleGet(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	app, err := h.apps.GetApplication(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewApplicationDetailResponse(app))
}

func (h *ApplicationHandler) HandleResendWebhook(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	result, err := h.resend.ResendWebhook(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}

	msg := "Webhook delivery failed"
	if result.Success {
		msg = "Webhook resent successfully"
	}
	return c.Status(fiber.StatusOK).JSON(dto.ResendResponse{
		Success:       true,
		Message:       msg,
		WebhookResult: result,
	})
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *ApplicationHandler) HandleUpdateStatus(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid request body", err)
	}

	if err := h.apps.UpdateStatus(c.Context(), id, req.Status); err != nil {
		return mapUsecaseError(err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

func (h *ApplicationHandler) HandleUpdateNotes(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	var req updateNotesRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid request body", err)
	}

	if err := h.apps.UpdateNotes(c.Context(), id, req.Notes); err != nil {
		return mapUsecaseError(err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

func parseIDParam(c fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.UUID{}, middleware.NewAppError(fiber.StatusBadRequest, "invalid application id", err)
	}
	return id, nil
}

func parseQueryInt(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}

func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Application not found", err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, "Failed to process application", err)
	}
}
