package background

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"assetdesk/internal/jobs"
	"assetdesk/internal/services"
)

const (
	JobDatasetRefresh = "dataset-refresh"
	JobReportArchive  = "report-archive"
)

// Enqueuer is the part of asynq.Client the scheduler uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Options struct {
	// RefreshInterval disables the dataset refresh when zero.
	RefreshInterval time.Duration
	// ArchiveAt is the local "HH:MM" of the nightly archive; empty disables it.
	ArchiveAt string
	Queue     string
	Location  *time.Location
}

// JobScheduler runs the periodic jobs of the server process.
type JobScheduler struct {
	scheduler gocron.Scheduler
	datasets  services.DatasetService
	enqueuer  Enqueuer
	opts      Options
	logger    *zap.Logger
	now       func() time.Time

	mu   sync.RWMutex
	jobs map[string]gocron.Job
}

// NewJobScheduler creates a new job scheduler. enqueuer may be nil, in which
// case the archive job is not registered.
func NewJobScheduler(datasets services.DatasetService, enqueuer Enqueuer, opts Options, logger *zap.Logger) (*JobScheduler, error) {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(opts.Location))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		datasets:  datasets,
		enqueuer:  enqueuer,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
		jobs:      make(map[string]gocron.Job),
	}
	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info("starting background job scheduler", zap.Strings("jobs", js.JobNames()))
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	js.logger.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// JobNames lists the registered jobs.
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()
	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (js *JobScheduler) registerJobs() error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if js.opts.RefreshInterval > 0 {
		job, err := js.scheduler.NewJob(
			gocron.DurationJob(js.opts.RefreshInterval),
			gocron.NewTask(js.refreshDataset, context.Background()),
			gocron.WithName(JobDatasetRefresh),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s job: %w", JobDatasetRefresh, err)
		}
		js.jobs[JobDatasetRefresh] = job
	}

	if js.opts.ArchiveAt != "" && js.enqueuer != nil {
		at, err := parseClock(js.opts.ArchiveAt)
		if err != nil {
			return err
		}
		job, err := js.scheduler.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(at)),
			gocron.NewTask(js.enqueueArchive, context.Background()),
			gocron.WithName(JobReportArchive),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s job: %w", JobReportArchive, err)
		}
		js.jobs[JobReportArchive] = job
	}
	return nil
}

// refreshDataset reloads the dataset snapshot from the database.
func (js *JobScheduler) refreshDataset(ctx context.Context) error {
	d, err := js.datasets.Reload(ctx)
	if err != nil {
		// the service already logged it; keep serving the previous snapshot
		return err
	}
	js.logger.Debug("scheduled dataset refresh done", zap.Uint64("version", d.Version))
	return nil
}

// enqueueArchive queues the archive tasks for the previous day.
func (js *JobScheduler) enqueueArchive(ctx context.Context) error {
	var errs []error
	for _, payload := range jobs.ArchivePayloadsFor(js.now().In(js.opts.Location)) {
		var opts []asynq.Option
		if js.opts.Queue != "" {
			opts = append(opts, asynq.Queue(js.opts.Queue))
		}
		task, err := jobs.NewReportArchiveTask(payload, opts...)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		info, err := js.enqueuer.EnqueueContext(ctx, task)
		switch {
		case errors.Is(err, asynq.ErrTaskIDConflict):
			js.logger.Info("archive task already queued", zap.String("entity", payload.Entity), zap.String("day", payload.Start))
		case err != nil:
			js.logger.Error("failed to enqueue archive task", zap.String("entity", payload.Entity), zap.Error(err))
			errs = append(errs, err)
		default:
			js.logger.Info("archive task queued", zap.String("entity", payload.Entity), zap.String("id", info.ID), zap.String("queue", info.Queue))
		}
	}
	return errors.Join(errs...)
}

func parseClock(value string) (gocron.AtTime, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return nil, fmt.Errorf("invalid archive time %q, want HH:MM", value)
	}
	return gocron.NewAtTime(uint(t.Hour()), uint(t.Minute()), 0), nil
}
