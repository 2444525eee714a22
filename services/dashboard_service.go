package services

import (
	"context"
	"fmt"

	"github.com/agusaisen/recopro/models"
	"github.com/agusaisen/recopro/repositories"
	"golang.org/x/sync/errgroup"
)

type DashboardService interface {
	GetStats(ctx context.Context) (models.DashboardStats, error)
}

type dashboardService struct {
	reportRepo repositories.ReportRepository
}

func NewDashboardService(reportRepo repositories.ReportRepository) DashboardService {
	return &dashboardService{reportRepo: reportRepo}
}

func (s *dashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats

	pending := models.TeamStatusPendiente
	approved := models.TeamStatusAprobada

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.LocalitiesTotal, err = s.reportRepo.CountLocalities(gctx)
		return
	})
	g.Go(func() (err error) {
		stats.DisciplinesActive, err = s.reportRepo.CountActiveDisciplines(gctx)
		return
	})
	g.Go(func() (err error) {
		stats.TeamsTotal, err = s.reportRepo.CountTeams(gctx, nil)
		return
	})
	g.Go(func() (err error) {
		stats.TeamsPending, err = s.reportRepo.CountTeams(gctx, &pending)
		return
	})
	g.Go(func() (err error) {
		stats.TeamsApproved, err = s.reportRepo.CountTeams(gctx, &approved)
		return
	})
	g.Go(func() (err error) {
		stats.ParticipantsTotal, err = s.reportRepo.CountParticipants(gctx)
		return
	})
	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, fmt.Errorf("failed to load dashboard stats: %w", err)
	}
	return stats, nil
}
