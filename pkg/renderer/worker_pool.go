package renderer

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

// Task is a unit of render work. Run must only write state the task owns
// (its own pixels, or visible points behind their own locks).
type Task struct {
	ID  int
	Run func() error
}

// TaskResult contains the result from running a task
type TaskResult struct {
	TaskID int
	Error  error
}

// WorkerPool runs tasks on a fixed set of goroutines
type WorkerPool struct {
	taskQueue   chan Task
	resultQueue chan TaskResult
	numWorkers  int
	wg          sync.WaitGroup
	started     bool
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		taskQueue:   make(chan Task, numWorkers*4),
		resultQueue: make(chan TaskResult, numWorkers*4),
		numWorkers:  numWorkers,
	}
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	if wp.started {
		return
	}
	wp.started = true
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a task to the worker pool
func (wp *WorkerPool) SubmitTask(task Task) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed task result
func (wp *WorkerPool) GetResult() (TaskResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// RunTasks submits every task, waits for all of them and returns the first
// error. Tasks picked up after ctx is done are skipped with ctx.Err().
// progress may be nil.
func (wp *WorkerPool) RunTasks(ctx context.Context, tasks []Task, progress *Progress) error {
	wp.Start()

	go func() {
		for _, task := range tasks {
			run := task.Run
			wp.SubmitTask(Task{ID: task.ID, Run: func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				return run()
			}})
		}
	}()

	var firstErr error
	for i := 0; i < len(tasks); i++ {
		result, ok := wp.GetResult()
		if !ok {
			return fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil && firstErr == nil {
			firstErr = result.Error
		}
		if progress != nil {
			progress.Increment()
		}
	}
	return firstErr
}

// worker is the main worker loop
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		wp.resultQueue <- TaskResult{
			TaskID: task.ID,
			Error:  runTask(task),
		}
	}
}

// runTask converts a panic inside the task into an error
func runTask(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %d panicked: %v\n%s", task.ID, r, debug.Stack())
		}
	}()
	return task.Run()
}
