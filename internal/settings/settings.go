// Package settings persists per-user preferences (monthly spending goal,
// alert toggle) in a small JSON sidecar file. The file is read and
// rewritten wholesale on every change, guarded by a process-local mutex;
// concurrent writers from other processes can lose updates.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
)

// fileData mirrors the sidecar layout: goals under "metas", alert
// toggles under "alertas", both keyed by the chat ID in decimal string
// form. Files written by earlier deployments of the bot keep working.
type fileData struct {
	Goals  map[string]goalAmount `json:"metas"`
	Alerts map[string]bool       `json:"alertas"`
}

// goalAmount is one stored goal value. The sidecar normally carries
// goals as JSON numbers, but hand-edited files sometimes quote them, so
// both forms decode. Numeric values marshal back as numbers.
type goalAmount string

func (g *goalAmount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*g = goalAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*g = goalAmount(n)
	return nil
}

func (g goalAmount) MarshalJSON() ([]byte, error) {
	if _, err := decimal.NewFromString(string(g)); err == nil {
		return []byte(g), nil
	}
	return json.Marshal(string(g))
}

// Store reads and writes the settings sidecar file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a Store for the given file path. The file is created
// lazily on the first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) load() (*fileData, error) {
	data := &fileData{
		Goals:  map[string]goalAmount{},
		Alerts: map[string]bool{},
	}

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return data, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := json.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if data.Goals == nil {
		data.Goals = map[string]goalAmount{}
	}
	if data.Alerts == nil {
		data.Alerts = map[string]bool{}
	}
	return data, nil
}

func (s *Store) save(data *fileData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// Goal returns the monthly spending goal for a chat, if one is set.
func (s *Store) Goal(chatID int64) (decimal.Decimal, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return decimal.Zero, false, err
	}

	raw, ok := data.Goals[key(chatID)]
	if !ok {
		return decimal.Zero, false, nil
	}
	goal, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("corrupt goal for chat %d: %w", chatID, err)
	}
	return goal, true, nil
}

// SetGoal stores the monthly spending goal for a chat.
func (s *Store) SetGoal(chatID int64, goal decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return err
	}
	data.Goals[key(chatID)] = goalAmount(goal.String())
	return s.save(data)
}

// AlertsEnabled reports whether goal alerts are on for a chat. Alerts
// default to on.
func (s *Store) AlertsEnabled(chatID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return false, err
	}
	enabled, ok := data.Alerts[key(chatID)]
	if !ok {
		return true, nil
	}
	return enabled, nil
}

// ToggleAlerts flips the alert toggle for a chat and returns the new
// state.
func (s *Store) ToggleAlerts(chatID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.load()
	if err != nil {
		return false, err
	}

	current, ok := data.Alerts[key(chatID)]
	if !ok {
		current = true
	}
	data.Alerts[key(chatID)] = !current
	if err := s.save(data); err != nil {
		return false, err
	}
	return !current, nil
}
