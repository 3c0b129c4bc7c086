package assistant

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"recipe-engine/internal/pkg/common"
)

var (
	// ErrQueueFull 隊列已滿
	ErrQueueFull = errors.New("assistant queue is full")
	// ErrQueueClosed 隊列已關閉
	ErrQueueClosed = errors.New("assistant queue is closed")
)

// Job 隊列中執行的外部請求
type Job func(ctx context.Context) (string, error)

// request 隊列請求
type request struct {
	ctx    context.Context
	job    Job
	result chan Result
}

// Result 處理結果
type Result struct {
	Content string
	Error   error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int   `json:"queue_length"`
	ProcessedCount int64 `json:"processed_count"`
	MaxQueueSize   int   `json:"max_queue_size"`
	Workers        int   `json:"workers"`
}

// Queue 固定工作者數量的有界隊列，限制同時進行的外部請求
type Queue struct {
	queue     chan *request
	done      chan struct{}
	workers   int
	maxSize   int
	processed int64
	wg        sync.WaitGroup
	once      sync.Once
}

// NewQueue 建立隊列並啟動工作者
func NewQueue(workers, maxSize int) *Queue {
	if workers <= 0 {
		workers = 1
	}
	if maxSize <= 0 {
		maxSize = 1
	}
	q := &Queue{
		queue:   make(chan *request, maxSize),
		done:    make(chan struct{}),
		workers: workers,
		maxSize: maxSize,
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
	return q
}

// Enqueue 將請求加入隊列，隊列已滿時立即回傳 ErrQueueFull
func (q *Queue) Enqueue(ctx context.Context, job Job) (<-chan Result, error) {
	select {
	case <-q.done:
		return nil, ErrQueueClosed
	default:
	}

	req := &request{ctx: ctx, job: job, result: make(chan Result, 1)}
	select {
	case q.queue <- req:
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(q.queue)),
			zap.Int("max_queue_size", q.maxSize),
		)
		return req.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		common.LogWarn("Assistant queue full", zap.Int("max_queue_size", q.maxSize))
		return nil, ErrQueueFull
	}
}

// Do 排隊執行並等待結果
func (q *Queue) Do(ctx context.Context, job Job) (string, error) {
	ch, err := q.Enqueue(ctx, job)
	if err != nil {
		return "", err
	}
	select {
	case res := <-ch:
		return res.Content, res.Error
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// work 工作者迴圈
func (q *Queue) work() {
	defer q.wg.Done()
	for {
		select {
		case <-q.done:
			q.drain()
			return
		case req := <-q.queue:
			q.run(req)
		}
	}
}

// run 執行單一請求；呼叫端已放棄的請求直接略過
func (q *Queue) run(req *request) {
	if err := req.ctx.Err(); err != nil {
		req.result <- Result{Error: err}
		return
	}
	content, err := req.job(req.ctx)
	atomic.AddInt64(&q.processed, 1)
	req.result <- Result{Content: content, Error: err}
}

// drain 關閉時回覆尚未處理的請求
func (q *Queue) drain() {
	for {
		select {
		case req := <-q.queue:
			req.result <- Result{Error: ErrQueueClosed}
		default:
			return
		}
	}
}

// Status 隊列狀態
func (q *Queue) Status() Status {
	return Status{
		QueueLength:    len(q.queue),
		ProcessedCount: atomic.LoadInt64(&q.processed),
		MaxQueueSize:   q.maxSize,
		Workers:        q.workers,
	}
}

// Close 停止工作者，等待進行中的請求完成
func (q *Queue) Close() {
	q.once.Do(func() { close(q.done) })
	q.wg.Wait()
}
