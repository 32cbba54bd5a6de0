package tasks

// TaskSchedulerInterface defines the interface for task scheduling
// operations. The main application uses it to run the background workers;
// the API uses it to trigger out-of-band ingestion and purge cycles.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	TriggerProcess() error
	TriggerPurge() error
}
