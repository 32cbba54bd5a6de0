package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/lysyi3m/wire-comb/app/cfg"
	"github.com/lysyi3m/wire-comb/app/database"
	"github.com/lysyi3m/wire-comb/app/feed"
	"github.com/lysyi3m/wire-comb/app/notify"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduler owns the background worker pool and the cycle mutex that keeps
// ingestion cycles from overlapping. Scheduled ticks and manual triggers all
// flow through the same task queue.
type Scheduler struct {
	wireConfig   *feed.Config
	recordRepo   database.RecordRepository
	settingsRepo database.SettingsRepository
	httpClient   *http.Client
	extractor    *feed.Extractor
	reconciler   *feed.Reconciler
	counter      *feed.Counter
	notifier     notify.Notifier
	badge        *notify.BadgePublisher
	userAgent    string
	interval     time.Duration
	workerCount  int

	cycleMu       sync.Mutex
	lastScheduled time.Time

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	taskQueue chan TaskInterface
}

func NewScheduler(wireConfig *feed.Config, recordRepo database.RecordRepository,
	settingsRepo database.SettingsRepository, httpClient *http.Client,
	extractor *feed.Extractor, reconciler *feed.Reconciler, counter *feed.Counter,
	notifier notify.Notifier, badge *notify.BadgePublisher) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	appCfg := cfg.Get()

	return &Scheduler{
		wireConfig:   wireConfig,
		recordRepo:   recordRepo,
		settingsRepo: settingsRepo,
		httpClient:   httpClient,
		extractor:    extractor,
		reconciler:   reconciler,
		counter:      counter,
		notifier:     notifier,
		badge:        badge,
		userAgent:    appCfg.UserAgent,
		interval:     time.Duration(appCfg.SchedulerInterval) * time.Second,
		workerCount:  appCfg.WorkerCount,
		ctx:          ctx,
		cancel:       cancel,
		taskQueue:    make(chan TaskInterface, 100),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueDue()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueDue()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// TriggerProcess enqueues an out-of-band ingestion cycle. It queues behind
// any cycle already in flight; the cycle mutex keeps them from overlapping.
func (s *Scheduler) TriggerProcess() error {
	return s.EnqueueTask(s.newProcessTask())
}

// TriggerPurge enqueues a retention eviction pass.
func (s *Scheduler) TriggerPurge() error {
	task := NewPurgeRecordsTask(s.wireConfig.Name, s.counter, s.recordRepo, s.settingsRepo, s.badge)
	return s.EnqueueTask(task)
}

func (s *Scheduler) newProcessTask() *ProcessWireTask {
	return NewProcessWireTask(s.wireConfig, &s.cycleMu, s.httpClient, s.extractor,
		s.reconciler, s.counter, s.recordRepo, s.settingsRepo, s.notifier, s.badge, s.userAgent)
}

// enqueueDue schedules an ingestion cycle when the wire's refresh interval
// has elapsed since the last scheduled one.
func (s *Scheduler) enqueueDue() {
	if !s.wireConfig.Settings.Enabled {
		slog.Debug("Wire disabled, skipping ProcessWireTask", "wire", s.wireConfig.Name)
		return
	}

	refresh := time.Duration(s.wireConfig.Settings.RefreshInterval) * time.Second
	now := time.Now()
	if !s.lastScheduled.IsZero() && now.Sub(s.lastScheduled) < refresh {
		slog.Debug("Wire not due for refresh yet", "wire", s.wireConfig.Name, "last_scheduled", s.lastScheduled)
		return
	}

	if err := s.EnqueueTask(s.newProcessTask()); err != nil {
		slog.Warn("Failed to enqueue ProcessWireTask", "wire", s.wireConfig.Name, "error", err)
		return
	}
	s.lastScheduled = now
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "wire", task.GetWireName(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
