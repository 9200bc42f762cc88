package room

import (
	"context"
	"fmt"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"
	ext "github.com/yola1107/kratos/v2/library/xgo"
	"github.com/yola1107/kratos/v2/log"

	"github.com/enaribe/startup-ludo-sub001/internal/model"
)

// Room codes are short, unambiguous and typeable from a phone.
const (
	roomIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomIDLength   = 6
)

var aiNames = []string{"Nova", "Atlas", "Pixel", "Echo", "Orbit", "Quill", "Vega", "Zephyr"}

// Manager tracks live rooms by code.
type Manager struct {
	repo  Repo
	rooms sync.Map // map[string]*Room
}

func NewManager(repo Repo) *Manager {
	return &Manager{repo: repo}
}

// Create builds a room from a roster, tops it up with AI seats when
// configured, and starts the first turn.
func (m *Manager) Create(roster []model.Seat, roller model.Roller) (*Room, error) {
	roster = m.fillSeats(roster)

	for attempt := 0; attempt < 5; attempt++ {
		id, err := gonanoid.Generate(roomIDAlphabet, roomIDLength)
		if err != nil {
			return nil, fmt.Errorf("generate room id: %w", err)
		}
		r, err := NewRoom(id, roster, m.repo, roller)
		if err != nil {
			return nil, err
		}
		if _, loaded := m.rooms.LoadOrStore(id, r); loaded {
			continue
		}
		r.Start()
		log.Infof("room %s created. seats=%d", id, len(roster))
		return r, nil
	}
	return nil, fmt.Errorf("room id space exhausted")
}

// Resume rebuilds a room from its stored checkpoint.
func (m *Manager) Resume(ctx context.Context, roomID string, roller model.Roller) (*Room, error) {
	if r := m.Get(roomID); r != nil {
		return r, nil
	}
	cp, err := m.repo.Checkpoints().Load(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint %s: %w", roomID, err)
	}
	r, err := Restore(roomID, cp, m.repo, roller)
	if err != nil {
		return nil, err
	}
	if prev, loaded := m.rooms.LoadOrStore(roomID, r); loaded {
		return prev.(*Room), nil
	}
	r.Start()
	log.Infof("room %s resumed at turn %d", roomID, cp.Turn)
	return r, nil
}

func (m *Manager) Get(id string) *Room {
	if v, ok := m.rooms.Load(id); ok {
		return v.(*Room)
	}
	return nil
}

// Remove closes and forgets a room; its checkpoint stays until TTL.
func (m *Manager) Remove(id string) {
	if v, ok := m.rooms.LoadAndDelete(id); ok {
		v.(*Room).Close()
		log.Infof("room %s removed", id)
	}
}

func (m *Manager) Range(fn func(*Room) bool) {
	m.rooms.Range(func(_, v any) bool {
		return fn(v.(*Room))
	})
}

func (m *Manager) Count() int {
	n := 0
	m.rooms.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (m *Manager) Close() {
	m.rooms.Range(func(k, v any) bool {
		v.(*Room).Close()
		m.rooms.Delete(k)
		return true
	})
}

// fillSeats pads the roster with AI opponents on the unused colors.
// With filling disabled the roster passes through untouched and
// NewRoom's own validation decides.
func (m *Manager) fillSeats(roster []model.Seat) []model.Seat {
	c := m.repo.GetRoomConfig()
	if c.AI == nil || !c.AI.FillSeats {
		return roster
	}
	want := int(c.Game.MaxSeats)
	if len(roster) >= want {
		return roster
	}

	used := map[model.Color]struct{}{}
	for _, s := range roster {
		used[s.Color] = struct{}{}
	}
	difficulty := model.ParseDifficulty(c.AI.Difficulty)
	for color := model.Color(0); int32(color) < model.ColorCount && len(roster) < want; color++ {
		if _, taken := used[color]; taken {
			continue
		}
		name := aiNames[ext.RandInt(0, int32(len(aiNames)))]
		roster = append(roster, model.Seat{
			ID:         fmt.Sprintf("ai-%s", mustNanoID()),
			Name:       name,
			Color:      color,
			AI:         true,
			Difficulty: difficulty,
		})
		used[color] = struct{}{}
	}
	return roster
}

func mustNanoID() string {
	id, err := gonanoid.Generate(roomIDAlphabet, 8)
	if err != nil {
		panic(err)
	}
	return id
}
