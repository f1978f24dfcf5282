package bot

import (
	"encoding/json"
	"fmt"
	"os"
)

// Identity describes one bot account as shipped in the roster file.
type Identity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"`
	AvatarIndex int    `json:"avatar_index"`
}

// Roster is an explicit collection of bot identities. Hosts load one at
// startup and pass it where needed; there is no package-level registry.
type Roster struct {
	identities []Identity
	byUserID   map[string]int
}

// LoadRoster reads a roster JSON file.
func LoadRoster(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bot roster: %w", err)
	}
	var identities []Identity
	if err := json.Unmarshal(data, &identities); err != nil {
		return nil, fmt.Errorf("parse bot roster: %w", err)
	}
	return NewRoster(identities), nil
}

// NewRoster builds a roster from identities already in memory.
func NewRoster(identities []Identity) *Roster {
	r := &Roster{
		identities: identities,
		byUserID:   make(map[string]int, len(identities)),
	}
	for i, id := range identities {
		if id.UserID != "" {
			r.byUserID[id.UserID] = i
		}
	}
	return r
}

// Len returns the roster size.
func (r *Roster) Len() int { return len(r.identities) }

// At returns an identity by index, wrapping around the pool. An empty roster
// yields a synthetic identity so match fill never stalls.
func (r *Roster) At(index int) Identity {
	if len(r.identities) == 0 {
		return Identity{
			UserID:      fmt.Sprintf("bot-%d", index),
			Username:    fmt.Sprintf("bot_%d", index),
			DisplayName: fmt.Sprintf("AI Player %d", index+1),
			Difficulty:  string(DifficultyStandard),
		}
	}
	return r.identities[index%len(r.identities)]
}

// IsBot reports whether the user ID belongs to the roster.
func (r *Roster) IsBot(userID string) bool {
	_, ok := r.byUserID[userID]
	return ok
}

// Get returns the identity for a bot user ID.
func (r *Roster) Get(userID string) (Identity, bool) {
	i, ok := r.byUserID[userID]
	if !ok {
		return Identity{}, false
	}
	return r.identities[i], true
}

// DisplayName returns the display name for a bot ID, falling back to the
// username, or empty for non-bots.
func (r *Roster) DisplayName(userID string) string {
	id, ok := r.Get(userID)
	if !ok {
		return ""
	}
	if id.DisplayName != "" {
		return id.DisplayName
	}
	return id.Username
}

// SetUserID records the server-assigned user ID for the identity at index,
// as provisioning resolves device IDs to accounts.
func (r *Roster) SetUserID(index int, userID string) {
	if index < 0 || index >= len(r.identities) {
		return
	}
	old := r.identities[index].UserID
	if old != "" {
		delete(r.byUserID, old)
	}
	r.identities[index].UserID = userID
	if userID != "" {
		r.byUserID[userID] = index
	}
}

// UserIDs lists every provisioned bot account ID.
func (r *Roster) UserIDs() []string {
	out := make([]string, 0, len(r.byUserID))
	for _, id := range r.identities {
		if id.UserID != "" {
			out = append(out, id.UserID)
		}
	}
	return out
}
