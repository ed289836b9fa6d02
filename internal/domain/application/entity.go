package application

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewed  Status = "reviewed"
	StatusContacted Status = "contacted"
	StatusRejected  Status = "rejected"
	StatusHired     Status = "hired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReviewed, StatusContacted, StatusRejected, StatusHired:
		return true
	}
	return false
}

// CV describes the uploaded résumé file. Analysis holds the raw response of
// the external parser service, when one was obtained.
type CV struct {
	FileName    string
	ContentType string
	Size        int64
	URL         string
	Analysis    json.RawMessage
}

// ParsedResume is the structured projection of the parser output. Every field
// is independently optional; RawData keeps the unparsed payload so nothing is
// lost when the projection is partial.
type ParsedResume struct {
	FullName        string
	Email           string
	Github          string
	Linkedin        string
	Employment      json.RawMessage
	TechnicalSkills []string
	SoftSkills      []string
	Education       json.RawMessage
	RawData         json.RawMessage
}

func (p *ParsedResume) Empty() bool {
	if p == nil {
		return true
	}
	return p.FullName == "" && p.Email == "" && p.Github == "" && p.Linkedin == "" &&
		len(p.Employment) == 0 && len(p.TechnicalSkills) == 0 && len(p.SoftSkills) == 0 &&
		len(p.Education) == 0 && len(p.RawData) == 0
}

// Application is the persisted submission record. Records are created exactly
// once per accepted submission and never deleted.
type Application struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone string

	CV           CV
	ParsedResume *ParsedResume

	Status Status
	Notes  string

	WebhookSent     bool
	WebhookResponse json.RawMessage

	CreatedAt time.Time
	UpdatedAt time.Time
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}
