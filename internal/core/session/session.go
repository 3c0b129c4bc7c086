package session

import (
	"errors"
	"strings"
	"time"

	"recipe-engine/internal/pkg/common"
)

// ErrSessionNotFound 會話不存在或已過期
var ErrSessionNotFound = errors.New("session not found")

// Role 對話角色
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn 一則對話
type Turn struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Profile 使用者偏好，隨對話累積
type Profile struct {
	Name      string   `json:"name,omitempty"`
	Allergies []string `json:"allergies"`
	Servings  int      `json:"servings"`
	City      string   `json:"city,omitempty"`
}

// AddAllergies 加入過敏原類別，重複加入不會改變結果；回傳新加入的類別
func (p *Profile) AddAllergies(classes ...string) []string {
	var added []string
	for _, c := range classes {
		c = strings.TrimSpace(c)
		if c == "" || p.HasAllergy(c) {
			continue
		}
		p.Allergies = append(p.Allergies, c)
		added = append(added, c)
	}
	return added
}

// HasAllergy 是否已宣告該過敏原
func (p *Profile) HasAllergy(class string) bool {
	for _, a := range p.Allergies {
		if strings.EqualFold(a, class) {
			return true
		}
	}
	return false
}

// Session 單一使用者的對話狀態，由呼叫端持有並傳入引擎
type Session struct {
	ID        string    `json:"id"`
	Profile   Profile   `json:"profile"`
	History   []Turn    `json:"history"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New 建立新的會話
func New(servings int) *Session {
	now := time.Now()
	return &Session{
		ID:        common.GenerateUUID(),
		Profile:   Profile{Allergies: []string{}, Servings: servings},
		History:   []Turn{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Append 追加一則對話，maxHistory > 0 時只保留最近的幾則
func (s *Session) Append(role Role, content string, maxHistory int) {
	now := time.Now()
	s.History = append(s.History, Turn{Role: role, Content: content, At: now})
	if maxHistory > 0 && len(s.History) > maxHistory {
		s.History = append([]Turn(nil), s.History[len(s.History)-maxHistory:]...)
	}
	s.UpdatedAt = now
}

// Recent 最近 n 則對話（由舊到新）
func (s *Session) Recent(n int) []Turn {
	if n <= 0 || n >= len(s.History) {
		return s.History
	}
	return s.History[len(s.History)-n:]
}

// Clone 深拷貝，儲存層回傳副本避免共用切片
func (s *Session) Clone() *Session {
	c := *s
	c.Profile.Allergies = append([]string{}, s.Profile.Allergies...)
	c.History = append([]Turn{}, s.History...)
	return &c
}
