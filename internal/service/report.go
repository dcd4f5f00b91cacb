package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/jobtrackr/backend/internal/constants"
	"github.com/jobtrackr/backend/internal/dto"
	apperrors "github.com/jobtrackr/backend/internal/errors"
	"go.uber.org/zap"
)

// reportPageSize caps how many applications a report includes.
const reportPageSize = 200

// ReportService renders a user's applications and stats into a PDF.
type ReportService struct {
	apps   *ApplicationService
	users  UserResolver
	logger *zap.Logger
}

func NewReportService(apps *ApplicationService, users UserResolver, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		apps:   apps,
		users:  users,
		logger: logger,
	}
}

// Generate builds the PDF report for the caller's applications.
func (s *ReportService) Generate(ctx context.Context, userID uint) ([]byte, error) {
	user, err := s.users.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	apps, total, err := s.apps.List(ctx, userID, dto.ApplicationFilter{}, reportPageSize, 0, "")
	if err != nil {
		return nil, err
	}

	stats, err := s.apps.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(constants.AppName+" report", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Job Application Report")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("%s <%s>", user.Name, user.Email))
	pdf.Ln(5)
	pdf.Cell(0, 6, "Generated "+time.Now().UTC().Format("2 Jan 2006 15:04 MST"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total applications: %d", total))
	pdf.Ln(5)
	for _, status := range []string{
		constants.StatusPending,
		constants.StatusInterview,
		constants.StatusOffer,
		constants.StatusDeclined,
	} {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %d", status, stats.Defaults[status]))
		pdf.Ln(5)
	}
	pdf.Ln(5)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Applications")
	pdf.Ln(8)

	s.writeTable(pdf, apps)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		s.logger.Error("Failed to render report",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.logger.Info("Report generated",
		zap.Uint("user_id", userID),
		zap.Int64("applications", total),
		zap.Int("bytes", buf.Len()),
	)

	return buf.Bytes(), nil
}

func (s *ReportService) writeTable(pdf *fpdf.Fpdf, apps []dto.ApplicationResponse) {
	widths := []float64{50, 50, 25, 30, 35}
	headers := []string{"Company", "Position", "Status", "Job Type", "Applied"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, app := range apps {
		row := []string{
			truncate(app.Company, 32),
			truncate(app.Position, 32),
			app.Status,
			app.JobType,
			app.CreatedAt.Format("2 Jan 2006"),
		}
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
