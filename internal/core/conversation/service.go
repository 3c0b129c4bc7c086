package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"recipe-engine/internal/core/allergen"
	"recipe-engine/internal/core/assistant"
	"recipe-engine/internal/core/engine"
	"recipe-engine/internal/core/matching"
	"recipe-engine/internal/core/portion"
	"recipe-engine/internal/core/session"
	"recipe-engine/internal/pkg/common"
)

// ErrEmptyMessage 訊息內容為空
var ErrEmptyMessage = errors.New("message is empty")

// Assistant 產生自然語言回覆的外部模型
type Assistant interface {
	Enabled() bool
	Reply(ctx context.Context, b assistant.Brief) (string, error)
}

// Recorder 對話指標紀錄
type Recorder interface {
	ObserveTurn(confirmedRecipe string, stressed bool)
}

// Reply 單輪對話結果
type Reply struct {
	SessionID      string           `json:"session_id"`
	Message        string           `json:"message"`
	Generated      bool             `json:"generated"`
	Analysis       engine.Analysis  `json:"analysis"`
	AddedAllergies []string         `json:"added_allergies"`
	Recipe         *portion.Scaled  `json:"recipe,omitempty"`
	Allergens      *allergen.Report `json:"allergens,omitempty"`
	QuickIdeas     []matching.Match `json:"quick_ideas,omitempty"`
	Profile        session.Profile  `json:"profile"`
}

// ProfileUpdate 部分更新使用者資料，nil 欄位不變；Allergies 為追加
type ProfileUpdate struct {
	Name      *string  `json:"name"`
	Servings  *int     `json:"servings"`
	City      *string  `json:"city"`
	Allergies []string `json:"allergies"`
}

// Service 對話流程協調
type Service struct {
	engine          *engine.Engine
	store           session.Store
	assistant       Assistant
	recorder        Recorder
	maxHistory      int
	defaultServings int
	locks           keyedMutex
}

// Option Service 選項
type Option func(*Service)

// WithAssistant 設定外部語言模型
func WithAssistant(a Assistant) Option {
	return func(s *Service) {
		s.assistant = a
	}
}

// WithRecorder 設定指標紀錄器
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithMaxHistory 設定每個會話保留的對話則數
func WithMaxHistory(n int) Option {
	return func(s *Service) {
		s.maxHistory = n
	}
}

// NewService 建立對話服務
func NewService(e *engine.Engine, store session.Store, opts ...Option) *Service {
	s := &Service{
		engine:          e,
		store:           store,
		defaultServings: e.Catalog().Baseline(),
		locks:           keyedMutex{locks: make(map[string]*refMutex)},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create 建立新會話
func (s *Service) Create(ctx context.Context, update ProfileUpdate) (*session.Session, error) {
	sess := session.New(s.defaultServings)
	if err := applyProfile(&sess.Profile, update); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	common.LogInfo("會話已建立", zap.String("session_id", sess.ID))
	return sess, nil
}

// Get 取得會話
func (s *Service) Get(ctx context.Context, id string) (*session.Session, error) {
	return s.store.Get(ctx, id)
}

// Delete 刪除會話
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// UpdateProfile 更新使用者資料
func (s *Service) UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*session.Session, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyProfile(&sess.Profile, update); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Handle 處理一則使用者訊息
//
// 同一會話的訊息依序處理；不同會話可並行。
func (s *Service) Handle(ctx context.Context, id, text string) (*Reply, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	analysis := s.engine.Analyze(sess, text)
	reply := &Reply{
		SessionID:      sess.ID,
		Analysis:       analysis,
		AddedAllergies: []string{},
	}
	reply.AddedAllergies = append(reply.AddedAllergies, sess.Profile.AddAllergies(analysis.Allergens...)...)
	if analysis.City != "" {
		sess.Profile.City = analysis.City
	}

	brief := assistant.Brief{
		Message:   text,
		Profile:   sess.Profile,
		History:   sess.Recent(s.maxHistory),
		Stressed:  analysis.Stress.Stressed,
		Mentioned: analysis.Intent.Mentioned,
	}

	if analysis.Stress.Stressed {
		reply.QuickIdeas = s.safeQuickIdeas(sess.Profile.Allergies)
		for _, m := range reply.QuickIdeas {
			brief.QuickIdeas = append(brief.QuickIdeas, m.Recipe)
		}
	}

	if name := analysis.Intent.Recipe; name != "" {
		scaled, err := s.engine.Scale(name, sess.Profile.Servings)
		if err != nil {
			return nil, fmt.Errorf("failed to scale %s: %w", name, err)
		}
		report, err := s.engine.CheckAllergens(name, sess.Profile.Allergies)
		if err != nil {
			return nil, err
		}
		reply.Recipe = &scaled
		reply.Allergens = &report
		brief.Recipe = &scaled
		brief.Allergens = &report
		if r, err := s.engine.Recipe(name); err == nil {
			brief.Darija = r.Darija
		}
	}

	sess.Append(session.RoleUser, text, s.maxHistory)

	reply.Message, reply.Generated = s.respond(ctx, brief, reply)
	sess.Append(session.RoleAssistant, reply.Message, s.maxHistory)

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	reply.Profile = sess.Profile

	if s.recorder != nil {
		s.recorder.ObserveTurn(analysis.Intent.Recipe, analysis.Stress.Stressed)
	}
	common.LogDebug("對話已處理",
		zap.String("session_id", sess.ID),
		zap.String("recipe", analysis.Intent.Recipe),
		zap.Bool("stressed", analysis.Stress.Stressed),
		zap.Bool("generated", reply.Generated),
	)
	return reply, nil
}

// respond 優先使用外部模型，失敗或未啟用時改用固定摘要
func (s *Service) respond(ctx context.Context, b assistant.Brief, reply *Reply) (string, bool) {
	if s.assistant != nil && s.assistant.Enabled() {
		msg, err := s.assistant.Reply(ctx, b)
		if err == nil && msg != "" {
			return msg, true
		}
		if err != nil {
			common.LogWarn("Assistant 回覆失敗，改用摘要", zap.Error(err))
		}
	}
	return summarize(reply, b.Mentioned), false
}

// safeQuickIdeas 排除含使用者過敏原的快速食譜
func (s *Service) safeQuickIdeas(allergies []string) []matching.Match {
	ideas := s.engine.QuickIdeas()
	if len(allergies) == 0 {
		return ideas
	}
	out := ideas[:0:0]
	for _, m := range ideas {
		if report, err := s.engine.CheckAllergens(m.Recipe, allergies); err == nil && report.Safe {
			out = append(out, m)
		}
	}
	return out
}

// applyProfile 套用資料更新
func applyProfile(p *session.Profile, u ProfileUpdate) error {
	if u.Servings != nil {
		if *u.Servings <= 0 {
			return fmt.Errorf("%w: %d", engine.ErrInvalidServings, *u.Servings)
		}
		p.Servings = *u.Servings
	}
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.City != nil {
		p.City = strings.TrimSpace(*u.City)
	}
	p.AddAllergies(u.Allergies...)
	return nil
}

// keyedMutex 以會話 ID 為鍵的互斥鎖，無人使用時釋放
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
