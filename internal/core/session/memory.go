package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"recipe-engine/internal/pkg/common"
)

// MemoryStore 行程內會話儲存，支援 TTL、容量上限與最少使用淘汰
type MemoryStore struct {
	ttl     time.Duration
	maxSize int
	mu      sync.RWMutex
	store   map[string]entry
	stats   stats
	done    chan struct{}
	once    sync.Once
}

// entry 會話條目
type entry struct {
	session     *Session
	expiresAt   time.Time
	lastAccess  time.Time
	accessCount int
}

// stats 儲存統計
type stats struct {
	hits      int64
	misses    int64
	evictions int64
	errors    int64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore 建立記憶體會話儲存，cleanupInterval > 0 時啟動背景清理
func NewMemoryStore(ttl time.Duration, maxSize int, cleanupInterval time.Duration) *MemoryStore {
	m := &MemoryStore{
		ttl:     ttl,
		maxSize: maxSize,
		store:   make(map[string]entry),
		done:    make(chan struct{}),
	}

	if cleanupInterval > 0 {
		go m.startCleanup(cleanupInterval)
	}

	common.LogInfo("會話儲存已初始化",
		zap.String("backend", "memory"),
		zap.Int("最大容量", maxSize),
		zap.Duration("存活時間", ttl),
		zap.Duration("清理間隔", cleanupInterval),
	)
	return m
}

// Get 取得會話副本
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.store[id]
	if !ok {
		m.stats.misses++
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if time.Now().After(e.expiresAt) {
		delete(m.store, id)
		m.stats.evictions++
		m.stats.misses++
		common.LogDebug("會話已過期", zap.String("session_id", id))
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	e.lastAccess = time.Now()
	e.accessCount++
	m.store[id] = e
	m.stats.hits++
	return e.session.Clone(), nil
}

// Save 儲存會話並重設存活時間
func (m *MemoryStore) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.store[s.ID]
	if !exists && len(m.store) >= m.maxSize {
		// 清理過期項目
		evicted := m.cleanup()
		common.LogDebug("會話清理執行", zap.Int("清理數量", evicted))

		// 如果仍然超過大小限制，淘汰最少使用者
		if len(m.store) >= m.maxSize {
			m.evictLRU()
		}

		if len(m.store) >= m.maxSize {
			m.stats.errors++
			common.LogWarn("會話儲存已滿", zap.Int("目前容量", len(m.store)))
			return common.ErrSessionStoreFull
		}
	}

	now := time.Now()
	m.store[s.ID] = entry{
		session:     s.Clone(),
		expiresAt:   now.Add(m.ttl),
		lastAccess:  now,
		accessCount: existing.accessCount,
	}
	return nil
}

// Delete 刪除會話
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.store[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.store, id)
	return nil
}

// startCleanup 定期清理過期會話
func (m *MemoryStore) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.mu.Lock()
			m.cleanup()
			m.mu.Unlock()
		case <-m.done:
			return
		}
	}
}

// cleanup 清理過期會話，呼叫端需持有寫鎖
func (m *MemoryStore) cleanup() int {
	now := time.Now()
	count := 0

	for id, e := range m.store {
		if now.After(e.expiresAt) {
			delete(m.store, id)
			count++
			m.stats.evictions++
		}
	}

	if count > 0 {
		common.LogInfo("Cleaned up expired sessions",
			zap.Int("count", count),
			zap.Int64("total_evictions", m.stats.evictions),
			zap.Int("remaining_size", len(m.store)),
		)
	}
	return count
}

// evictLRU 淘汰存取次數最少、最久未使用的會話
func (m *MemoryStore) evictLRU() {
	var oldestID string
	var oldestAccess time.Time
	var lowestAccessCount int

	for id, e := range m.store {
		if oldestID == "" ||
			e.accessCount < lowestAccessCount ||
			(e.accessCount == lowestAccessCount && e.lastAccess.Before(oldestAccess)) {
			oldestID = id
			oldestAccess = e.lastAccess
			lowestAccessCount = e.accessCount
		}
	}

	if oldestID != "" {
		delete(m.store, oldestID)
		m.stats.evictions++
		common.LogInfo("會話已淘汰(LRU)", zap.String("session_id", oldestID))
	}
}

// Stats 儲存統計
func (m *MemoryStore) Stats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ratio := 0.0
	if total := m.stats.hits + m.stats.misses; total > 0 {
		ratio = float64(m.stats.hits) / float64(total)
	}
	return map[string]interface{}{
		"backend":   "memory",
		"size":      len(m.store),
		"max_size":  m.maxSize,
		"hits":      m.stats.hits,
		"misses":    m.stats.misses,
		"evictions": m.stats.evictions,
		"errors":    m.stats.errors,
		"hit_ratio": ratio,
	}
}

// Close 停止背景清理並清空會話
func (m *MemoryStore) Close() error {
	m.once.Do(func() { close(m.done) })

	m.mu.Lock()
	defer m.mu.Unlock()

	m.store = make(map[string]entry)
	common.LogInfo("會話儲存已關閉",
		zap.Int64("命中次數", m.stats.hits),
		zap.Int64("未命中次數", m.stats.misses),
		zap.Int64("淘汰次數", m.stats.evictions),
	)
	return nil
}
