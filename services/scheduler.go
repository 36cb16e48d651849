// services/scheduler.go
package services

import (
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"
)

// SchedulerService runs the housekeeping jobs: just after midnight it ends
// streaks for profiles that skipped the previous day. Streaks always show
// the truth even if nobody opens the app.
type SchedulerService struct {
	appContext.DefaultService

	sqlSvc *SqliteService

	scheduler *gocron.Scheduler
	now       func() time.Time
}

const SCHEDULER_SVC = "scheduler_svc"

func (svc *SchedulerService) Id() string {
	return SCHEDULER_SVC
}

func (svc *SchedulerService) Configure(ctx *appContext.Context) error {
	svc.now = time.Now
	return svc.DefaultService.Configure(ctx)
}

func (svc *SchedulerService) Start() error {
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)

	svc.scheduler = gocron.NewScheduler(time.Local)

	if _, err := svc.scheduler.Every(1).Day().At("00:05").Do(svc.rolloverStreaks); err != nil {
		return err
	}

	svc.scheduler.StartAsync()
	log.Info("Scheduler started")
	return nil
}

func (svc *SchedulerService) Shutdown() {
	if svc.scheduler != nil {
		svc.scheduler.Stop()
	}
}

// rolloverStreaks zeroes the streak of every profile that did not study
// yesterday. Best streaks are untouched.
func (svc *SchedulerService) rolloverStreaks() {
	rows, err := svc.sqlSvc.GetAllUserSettings()
	if err != nil {
		log.WithError(err).Error("Streak rollover failed to load settings")
		return
	}

	now := svc.now()
	yesterday := now.AddDate(0, 0, -1)

	broken := 0
	for i := range rows {
		settings := rows[i]
		if settings.Streak == 0 {
			continue
		}
		if settings.LastLearnDate != nil &&
			(sameCalendarDay(*settings.LastLearnDate, yesterday) || sameCalendarDay(*settings.LastLearnDate, now)) {
			continue
		}

		settings.Streak = 0
		if err := svc.sqlSvc.UpdateUserSettings(&settings); err != nil {
			log.WithError(err).WithField("user", settings.UserID).Warn("Failed to reset streak")
			continue
		}
		broken++
	}

	if broken > 0 {
		log.WithField("profiles", broken).Info("Streaks reset after missed day")
	}
}
