package service

import (
	"time"

	"github.com/nchhillar2004/chainex/internal/repository"
	"github.com/nchhillar2004/chainex/internal/ws"
)

// XPService is the experience ledger: it owns every XP mutation and keeps the
// stored level consistent with the stored total.
type XPService struct {
	xpRepo   *repository.XPRepository
	userRepo *repository.UserRepository
	hub      *ws.UpdatesHub // optional; level-ups are pushed to the live feed
}

func NewXPService(xpRepo *repository.XPRepository, userRepo *repository.UserRepository, hub *ws.UpdatesHub) *XPService {
	return &XPService{xpRepo: xpRepo, userRepo: userRepo, hub: hub}
}

// AwardOutcome reports the user's ledger state right after an award.
type AwardOutcome struct {
	NewTotal  int  `json:"new_total"`
	NewLevel  int  `json:"new_level"`
	LeveledUp bool `json:"leveled_up"`
}

// Award credits XP to a user and appends the audit entry. Returns
// domain.ErrNotFound when the user does not exist; on any failure no state is
// written.
func (s *XPService) Award(userID uint, amount int, action string) (*AwardOutcome, error) {
	res, err := s.xpRepo.Award(userID, amount, action)
	if err != nil {
		return nil, err
	}
	out := &AwardOutcome{
		NewTotal:  res.NewTotal,
		NewLevel:  res.NewLevel,
		LeveledUp: res.NewLevel > res.PrevLevel,
	}
	if out.LeveledUp && s.hub != nil {
		if u, err := s.userRepo.GetByID(userID); err == nil {
			s.hub.LevelUp(u.ID, u.Username, out.NewLevel)
		}
	}
	return out, nil
}

// HistoryEntry is one ledger row as exposed to callers.
type HistoryEntry struct {
	Amount    int       `json:"amount"`
	Action    string    `json:"action"`
	NewTotal  int       `json:"new_total"`
	NewLevel  int       `json:"new_level"`
	CreatedAt time.Time `json:"created_at"`
}

// History returns the user's latest ledger entries, newest first.
func (s *XPService) History(userID uint, limit int) ([]HistoryEntry, error) {
	logs, err := s.xpRepo.History(userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryEntry, 0, len(logs))
	for _, l := range logs {
		out = append(out, HistoryEntry{
			Amount:    l.Amount,
			Action:    l.Action,
			NewTotal:  l.NewTotal,
			NewLevel:  l.NewLevel,
			CreatedAt: l.CreatedAt,
		})
	}
	return out, nil
}

// LeaderboardEntry is one ranked row of the XP leaderboard.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	Experience int    `json:"experience"`
	Level      int    `json:"level"`
	IsVerified bool   `json:"is_verified"`
	AvatarURL  string `json:"avatar_url,omitempty"`
}

// Leaderboard returns the top users by experience.
func (s *XPService) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	users, err := s.xpRepo.Leaderboard(limit)
	if err != nil {
		return nil, err
	}
	out := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		out = append(out, LeaderboardEntry{
			Rank:       i + 1,
			UserID:     u.ID,
			Username:   u.Username,
			Experience: u.Experience,
			Level:      u.Level,
			IsVerified: u.IsVerified,
			AvatarURL:  u.AvatarURL,
		})
	}
	return out, nil
}
