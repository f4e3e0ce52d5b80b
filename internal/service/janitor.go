package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/photogram/internal/media"
	"github.com/d60-Lab/photogram/pkg/logger"
)

// MediaJanitor 异步删除不再被引用的图片文件，不占用请求路径
type MediaJanitor struct {
	store media.Store
	ch    chan string
	wg    sync.WaitGroup
}

func NewMediaJanitor(store media.Store, queueSize int) *MediaJanitor {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &MediaJanitor{store: store, ch: make(chan string, queueSize)}
}

// Start 启动 worker，返回的 stop 函数会处理完队列中剩余的任务后退出
func (j *MediaJanitor) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		j.wg.Add(1)
		go func() {
			defer j.wg.Done()
			for {
				select {
				case key := <-j.ch:
					j.remove(key)
				case <-stopCh:
					for {
						select {
						case key := <-j.ch:
							j.remove(key)
						default:
							return
						}
					}
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		done := make(chan struct{})
		go func() {
			j.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (j *MediaJanitor) remove(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := j.store.Delete(ctx, key); err != nil {
		logger.Warn("media janitor delete failed", zap.String("key", key), zap.Error(err))
		return
	}
	logger.Debug("media removed", zap.String("key", key))
}

// Enqueue 队列满时丢弃并告警，返回是否入队
func (j *MediaJanitor) Enqueue(key string) bool {
	if key == "" {
		return false
	}
	select {
	case j.ch <- key:
		return true
	default:
		logger.Warn("media janitor queue full, drop", zap.String("key", key))
		return false
	}
}

// QueueLen 当前队列长度（采样值）
func (j *MediaJanitor) QueueLen() int { return len(j.ch) }
