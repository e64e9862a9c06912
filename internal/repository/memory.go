package repository

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/avelasco/rsvp-api/internal/models"
)

// In-memory implementations of the repository interfaces, used by the test
// suites and by local runs without Postgres. They mirror the SQL semantics:
// missing rows surface as sql.ErrNoRows, the reminder log is append-only, and
// all methods are safe for concurrent use.

var (
	_ InvitationRepository = (*MemoryInvitationRepository)(nil)
	_ EventRepository      = (*MemoryEventRepository)(nil)
	_ ReminderRepository   = (*MemoryReminderRepository)(nil)
)

type MemoryInvitationRepository struct {
	mu    sync.RWMutex
	items map[string]models.Invitation
	order []string
}

func NewMemoryInvitationRepository() *MemoryInvitationRepository {
	return &MemoryInvitationRepository{items: map[string]models.Invitation{}}
}

func (r *MemoryInvitationRepository) Create(ctx context.Context, inv models.Invitation) (models.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[inv.Token] = inv
	r.order = append(r.order, inv.Token)
	return inv, nil
}

func (r *MemoryInvitationRepository) GetByToken(ctx context.Context, token string) (models.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.items[token]
	if !ok {
		return models.Invitation{}, sql.ErrNoRows
	}
	return inv, nil
}

func (r *MemoryInvitationRepository) ListByEvent(ctx context.Context, eventID string) ([]models.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var invitations []models.Invitation
	for _, token := range r.order {
		if inv := r.items[token]; inv.EventID == eventID {
			invitations = append(invitations, inv)
		}
	}
	return invitations, nil
}

func (r *MemoryInvitationRepository) ListPending(ctx context.Context) ([]models.Invitation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var invitations []models.Invitation
	for _, token := range r.order {
		if inv := r.items[token]; inv.IsPending() {
			invitations = append(invitations, inv)
		}
	}
	return invitations, nil
}

func (r *MemoryInvitationRepository) UpdateStatus(ctx context.Context, token string, status models.ResponseStatus, respondedAt time.Time) (models.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.items[token]
	if !ok {
		return models.Invitation{}, sql.ErrNoRows
	}
	inv.Status = status
	t := respondedAt
	inv.ResponseTime = &t
	r.items[token] = inv
	return inv, nil
}

type MemoryEventRepository struct {
	mu    sync.RWMutex
	items map[string]models.Event
}

func NewMemoryEventRepository() *MemoryEventRepository {
	return &MemoryEventRepository{items: map[string]models.Event{}}
}

func (r *MemoryEventRepository) GetByID(ctx context.Context, eventID string) (models.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ev, ok := r.items[eventID]
	if !ok {
		return models.Event{}, sql.ErrNoRows
	}
	return copyEvent(ev), nil
}

func (r *MemoryEventRepository) UpsertParticipant(ctx context.Context, inv models.Invitation, status models.ResponseStatus) (models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.items[inv.EventID]
	if !ok {
		ev = models.EventFromInvitation(inv)
		ev.Participants[inv.ParticipantID] = status
	} else {
		ev.Participants[inv.ParticipantID] = status
	}
	r.items[inv.EventID] = ev
	return copyEvent(ev), nil
}

func copyEvent(ev models.Event) models.Event {
	out := ev
	out.Participants = make(map[string]models.ResponseStatus, len(ev.Participants))
	for id, status := range ev.Participants {
		out.Participants[id] = status
	}
	return out
}

type MemoryReminderRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  []models.Reminder
}

func NewMemoryReminderRepository() *MemoryReminderRepository {
	return &MemoryReminderRepository{}
}

func (r *MemoryReminderRepository) Create(ctx context.Context, reminder models.Reminder) (models.Reminder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	reminder.ID = r.nextID
	r.items = append(r.items, reminder)
	return reminder, nil
}

func (r *MemoryReminderRepository) ListSince(ctx context.Context, token string, since time.Time) ([]models.Reminder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var reminders []models.Reminder
	for _, rem := range r.items {
		if rem.InvitationToken == token && !rem.SentAt.Before(since) {
			reminders = append(reminders, rem)
		}
	}
	sort.Slice(reminders, func(i, j int) bool { return reminders[i].SentAt.Before(reminders[j].SentAt) })
	return reminders, nil
}

// All returns a copy of the full reminder log, oldest first.
func (r *MemoryReminderRepository) All() []models.Reminder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Reminder, len(r.items))
	copy(out, r.items)
	return out
}
