package services

import (
	"context"
	"fmt"

	"github.com/agusaisen/recopro/models"
	"github.com/agusaisen/recopro/repositories"
	"golang.org/x/sync/errgroup"
)

// EnrollmentReport is the JSON payload the admin UI turns into the
// PDF/Excel exports; the backend only aggregates.
type EnrollmentReport struct {
	Disciplinas []models.DisciplineReportRow `json:"disciplinas"`
	Localidades []models.LocalityReportRow   `json:"localidades"`
}

// RosterExport is the data behind the "lista de buena fe" printout of
// one team.
type RosterExport struct {
	Equipo      *models.Team         `json:"equipo"`
	Integrantes []*models.TeamMember `json:"integrantes"`
}

type ReportService interface {
	EnrollmentReport(ctx context.Context) (*EnrollmentReport, error)
	RosterExport(ctx context.Context, teamID int, actor Actor) (*RosterExport, error)
}

type reportService struct {
	reportRepo repositories.ReportRepository
	teams      TeamService
}

func NewReportService(reportRepo repositories.ReportRepository, teams TeamService) ReportService {
	return &reportService{reportRepo: reportRepo, teams: teams}
}

func (s *reportService) EnrollmentReport(ctx context.Context) (*EnrollmentReport, error) {
	var report EnrollmentReport

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.reportRepo.DisciplineRows(gctx)
		if err != nil {
			return err
		}
		report.Disciplinas = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.reportRepo.LocalityRows(gctx)
		if err != nil {
			return err
		}
		report.Localidades = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to assemble enrollment report: %w", err)
	}
	return &report, nil
}

func (s *reportService) RosterExport(ctx context.Context, teamID int, actor Actor) (*RosterExport, error) {
	team, err := s.teams.GetByID(ctx, teamID, actor)
	if err != nil {
		return nil, err
	}
	return &RosterExport{Equipo: team, Integrantes: team.Members}, nil
}
