package preview

import (
	"fmt"
	"log"
	"math"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// AppName is the gdata application directory for preview sessions
const AppName = "spotlight_preview"

const sessionObject = "session"

// Session is what the preview remembers between runs for one input
type Session struct {
	Input    string  `yaml:"input"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	Progress float64 `yaml:"progress"`
}

// Sanitize replaces a non-positive window size with the fallback and clamps
// progress to [0,1], so a stale session cannot break the layout.
func (s Session) Sanitize(width, height int) Session {
	if s.Width <= 0 || s.Height <= 0 {
		s.Width, s.Height = width, height
	}
	if math.IsNaN(s.Progress) {
		s.Progress = 0
	}
	s.Progress = min(max(s.Progress, 0), 1)
	return s
}

// SessionStore persists sessions through gdata. A nil manager keeps
// everything in memory only.
type SessionStore struct {
	manager *gdata.Manager
}

// OpenSessionStore opens the gdata storage, falling back to memory-only mode
func OpenSessionStore(appName string) *SessionStore {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[!] Хранилище сессий недоступно: %v", err)
		return &SessionStore{}
	}
	return &SessionStore{manager: m}
}

// Load returns the saved session for key, or ok=false when none exists
func (s *SessionStore) Load(key string) (Session, bool, error) {
	if s.manager == nil || !s.manager.ObjectPropExists(sessionObject, key) {
		return Session{}, false, nil
	}

	data, err := s.manager.LoadObjectProp(sessionObject, key)
	if err != nil {
		return Session{}, false, fmt.Errorf("load session: %w", err)
	}
	var sess Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return Session{}, false, fmt.Errorf("unmarshal session: %w", err)
	}
	return sess, true, nil
}

func (s *SessionStore) Save(key string, sess Session) error {
	if s.manager == nil {
		return nil
	}

	data, err := yaml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.manager.SaveObjectProp(sessionObject, key, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// SessionKey turns an input path into a gdata property name
func SessionKey(input string) string {
	key := make([]byte, 0, len(input))
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			key = append(key, c)
		default:
			key = append(key, '_')
		}
	}
	if len(key) == 0 {
		return "default"
	}
	return string(key)
}
