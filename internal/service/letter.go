package service

import (
	"context"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/jobtrackr/backend/internal/dto"
	apperrors "github.com/jobtrackr/backend/internal/errors"
	"go.uber.org/zap"
)

// letterTemplates maps a tone to its cover-letter template. Templates run
// with the sprig function set, so date and string helpers are available.
var letterTemplates = map[string]string{
	"formal": `Dear Hiring Manager,

I am writing to formally express my interest in the {{ .Position }} position at {{ .Company }}. With my professional background and dedication to excellence, I am confident I would be a valuable addition to your team{{ if .Location }} in {{ .Location }}{{ end }}.

My experience has prepared me to contribute meaningfully from day one, and I would welcome the opportunity to discuss how my skills align with your needs.

Thank you for your time and consideration.

Sincerely,
{{ .Name }}`,

	"friendly": `Hi there,

I came across the {{ .Position }} opening at {{ .Company }} and it immediately caught my eye. It feels like a great match for what I love doing, and I'd be thrilled to bring my experience to your team{{ if .Location }} over in {{ .Location }}{{ end }}.

I'd love to chat about how I can help. Looking forward to hearing from you!

Best,
{{ .Name }}`,

	"enthusiastic": `Dear {{ .Company }} team,

I am genuinely excited to apply for the {{ .Position }} role! {{ .Company }} is exactly the kind of place I have been hoping to join, and I can't wait for the chance to contribute my energy and skills{{ if .Location }} in {{ .Location }}{{ end }}.

This opportunity feels like a perfect fit, and I would be delighted to tell you more about what I can bring to the team.

With enthusiasm,
{{ .Name }}`,
}

const defaultLetterTone = "formal"

// LetterService renders cover letters for an application from tone-keyed
// templates.
type LetterService struct {
	apps      *ApplicationService
	users     UserResolver
	templates map[string]*template.Template
	logger    *zap.Logger
}

// UserResolver is the slice of the auth service the letter generator
// needs: a way to put the caller's name on the letter.
type UserResolver interface {
	Me(ctx context.Context, userID uint) (*dto.UserResponse, error)
}

func NewLetterService(apps *ApplicationService, users UserResolver, logger *zap.Logger) (*LetterService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	templates := make(map[string]*template.Template, len(letterTemplates))
	for tone, text := range letterTemplates {
		tmpl, err := template.New(tone).Funcs(sprig.FuncMap()).Parse(text)
		if err != nil {
			return nil, err
		}
		templates[tone] = tmpl
	}

	return &LetterService{
		apps:      apps,
		users:     users,
		templates: templates,
		logger:    logger,
	}, nil
}

// Generate renders a cover letter for one of the caller's applications.
// An unknown or empty tone falls back to formal.
func (s *LetterService) Generate(ctx context.Context, userID, applicationID uint, req dto.LetterRequest) (*dto.LetterResponse, error) {
	app, err := s.apps.Get(ctx, userID, applicationID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	tone := req.Tone
	tmpl, ok := s.templates[tone]
	if !ok {
		tone = defaultLetterTone
		tmpl = s.templates[tone]
	}

	data := map[string]string{
		"Name":     user.Name,
		"Company":  app.Company,
		"Position": app.Position,
		"Location": app.Location,
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		s.logger.Error("Failed to render cover letter",
			zap.Uint("application_id", applicationID),
			zap.String("tone", tone),
			zap.Error(err),
		)
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.logger.Info("Cover letter generated",
		zap.Uint("application_id", applicationID),
		zap.Uint("user_id", userID),
		zap.String("tone", tone),
	)

	return &dto.LetterResponse{Letter: buf.String()}, nil
}
