package dto

import (
	"encoding/json"
	"time"

	"cv-intake/internal/domain/application"
	"cv-intake/internal/infrastructure/webhook"
	"cv-intake/internal/usecase"
)

type SubmissionResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ApplicationID string `json:"applicationId"`
	WebhookSent   bool   `json:"webhookSent"`
}

type CVResponse struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
}

type ApplicationResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	CV          CVResponse `json:"cv"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes,omitempty"`
	WebhookSent bool       `json:"webhookSent"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

type ParsedResumeResponse struct {
	FullName        string          `json:"fullName,omitempty"`
	Email           string          `json:"email,omitempty"`
	Github          string          `json:"github,omitempty"`
	Linkedin        string          `json:"linkedin,omitempty"`
	Employment      json.RawMessage `json:"employment,omitempty"`
	TechnicalSkills []string        `json:"technicalSkills,omitempty"`
	SoftSkills      []string        `json:"softSkills,omitempty"`
	Education       json.RawMessage `json:"education,omitempty"`
}

type ApplicationDetailResponse struct {
	ApplicationResponse
	ParsedResume    *ParsedResumeResponse `json:"parsedResume,omitempty"`
	WebhookResponse json.RawMessage       `json:"webhookResponse,omitempty"`
}

type ListResponse struct {
	Success    bool                  `json:"success"`
	Data       []ApplicationResponse `json:"data"`
	Pagination usecase.Pagination    `json:"pagination"`
}

type ResendResponse struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message"`
	WebhookResult webhook.Result `json:"webhookResult"`
}

func NewApplicationResponse(app application.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:    app.ID.String(),
		Name:  app.Name,
		Email: app.Email,
		Phone: app.Phone,
		CV: CVResponse{
			FileName:    app.CV.FileName,
			ContentType: app.CV.ContentType,
			Size:        app.CV.Size,
			URL:         app.CV.URL,
		},
		Status:      string(app.Status),
		Notes:       app.Notes,
		WebhookSent: app.WebhookSent,
		CreatedAt:   app.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   app.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func NewApplicationDetailResponse(app application.Application) ApplicationDetailResponse {
	out := ApplicationDetailResponse{
		ApplicationResponse: NewApplicationResponse(app),
		WebhookResponse:     app.WebhookResponse,
	}
	if p := app.ParsedResume; p != nil {
		out.ParsedResume = &ParsedResumeResponse{
			FullName:        p.FullName,
			Email:           p.Email,
			Github:          p.Github,
			Linkedin:        p.Linkedin,
			Employment:      p.Employment,
			TechnicalSkills: p.TechnicalSkills,
			SoftSkills:      p.SoftSkills,
			Education:       p.Education,
		}
	}
	return out
}
