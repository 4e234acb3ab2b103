package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/tcs-suzini/club-backend/repositories"
)

// StartScheduler runs the periodic maintenance jobs: tournament statut
// transitions by date and expired referent-request purging. Returns the
// scheduler so the caller can Shutdown on exit.
func StartScheduler(
	tournaments TournamentService,
	requestRepo repositories.ReferentRequestRepository,
	logger *slog.Logger,
) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			if err := tournaments.UpdateStatusesByDates(context.Background()); err != nil {
				logger.Error("tournament status job failed", slog.Any("error", err))
			}
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(func() {
			purged, err := requestRepo.DeleteExpired(context.Background(), time.Now().UTC())
			if err != nil {
				logger.Error("referent request purge failed", slog.Any("error", err))
				return
			}
			if purged > 0 {
				logger.Info("expired referent requests purged", slog.Int64("count", purged))
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	sched.Start()
	return sched, nil
}
