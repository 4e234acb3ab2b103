package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tcs-suzini/club-backend/models"
)

// Memory-backed repositories: the explicit degraded storage mode selected at
// startup when the document store is unconfigured or unreachable. Also the
// backend for unit tests. State is process-local and lost on restart.

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]models.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	for _, u := range r.users {
		if u.Email == user.Email {
			return ErrUserEmailConflict
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *MemoryUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	user.Email = strings.ToLower(user.Email)
	for id, u := range r.users {
		if id != user.ID && u.Email == user.Email {
			return ErrUserEmailConflict
		}
	}
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *MemoryUserRepository) List(_ context.Context, limit int) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *MemoryUserRepository) ListLicensedByPoints(_ context.Context, limit int) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]models.User, 0)
	for _, u := range r.users {
		if u.Licensed {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Points > users[j].Points })
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *MemoryUserRepository) IncrementParticipations(_ context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Participations += delta
	r.users[id] = u
	return nil
}

func (r *MemoryUserRepository) IncrementPoints(_ context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Points += delta
	r.users[id] = u
	return nil
}

type MemoryAchievementRepository struct {
	mu           sync.RWMutex
	achievements map[string]models.Achievement
}

func NewMemoryAchievementRepository() *MemoryAchievementRepository {
	return &MemoryAchievementRepository{achievements: make(map[string]models.Achievement)}
}

func (r *MemoryAchievementRepository) List(_ context.Context) ([]models.Achievement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	achievements := make([]models.Achievement, 0, len(r.achievements))
	for _, a := range r.achievements {
		achievements = append(achievements, a)
	}
	sort.Slice(achievements, func(i, j int) bool { return achievements[i].ID < achievements[j].ID })
	return achievements, nil
}

func (r *MemoryAchievementRepository) GetByID(_ context.Context, id string) (*models.Achievement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.achievements[id]
	if !ok {
		return nil, ErrAchievementNotFound
	}
	return &a, nil
}

func (r *MemoryAchievementRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.achievements)), nil
}

func (r *MemoryAchievementRepository) InsertMany(_ context.Context, achievements []models.Achievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range achievements {
		r.achievements[a.ID] = a
	}
	return nil
}

type grantKey struct {
	userID        string
	achievementID string
}

type MemoryUserAchievementRepository struct {
	mu     sync.RWMutex
	grants map[grantKey]models.UserAchievement
}

func NewMemoryUserAchievementRepository() *MemoryUserAchievementRepository {
	return &MemoryUserAchievementRepository{grants: make(map[grantKey]models.UserAchievement)}
}

func (r *MemoryUserAchievementRepository) Find(_ context.Context, userID, achievementID string) (*models.UserAchievement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.grants[grantKey{userID, achievementID}]
	if !ok {
		return nil, ErrAchievementNotFound
	}
	return &g, nil
}

func (r *MemoryUserAchievementRepository) ListByUser(_ context.Context, userID string) ([]models.UserAchievement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	grants := make([]models.UserAchievement, 0)
	for key, g := range r.grants {
		if key.userID == userID {
			grants = append(grants, g)
		}
	}
	sort.Slice(grants, func(i, j int) bool { return grants[i].EarnedAt.Before(grants[j].EarnedAt) })
	return grants, nil
}

func (r *MemoryUserAchievementRepository) Create(_ context.Context, grant *models.UserAchievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := grantKey{grant.UserID, grant.AchievementID}
	if _, ok := r.grants[key]; ok {
		return ErrGrantConflict
	}
	r.grants[key] = *grant
	return nil
}

func (r *MemoryUserAchievementRepository) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.grants {
		if key.userID == userID {
			delete(r.grants, key)
		}
	}
	return nil
}

type MemoryTournamentRepository struct {
	mu          sync.RWMutex
	tournaments map[string]models.Tournament
}

func NewMemoryTournamentRepository() *MemoryTournamentRepository {
	return &MemoryTournamentRepository{tournaments: make(map[string]models.Tournament)}
}

func (r *MemoryTournamentRepository) Create(_ context.Context, tournament *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tournaments[tournament.ID] = cloneTournament(*tournament)
	return nil
}

func (r *MemoryTournamentRepository) GetByID(_ context.Context, id string) (*models.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	t = cloneTournament(t)
	return &t, nil
}

func (r *MemoryTournamentRepository) Update(_ context.Context, tournament *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tournaments[tournament.ID]; !ok {
		return ErrTournamentNotFound
	}
	r.tournaments[tournament.ID] = cloneTournament(*tournament)
	return nil
}

func (r *MemoryTournamentRepository) List(_ context.Context, limit int) ([]models.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tournaments := make([]models.Tournament, 0, len(r.tournaments))
	for _, t := range r.tournaments {
		tournaments = append(tournaments, cloneTournament(t))
	}
	sort.Slice(tournaments, func(i, j int) bool {
		return tournaments[i].StartDate.After(tournaments[j].StartDate)
	})
	if len(tournaments) > limit {
		tournaments = tournaments[:limit]
	}
	return tournaments, nil
}

func (r *MemoryTournamentRepository) AddParticipant(_ context.Context, tournamentID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[tournamentID]
	if !ok {
		return ErrTournamentNotFound
	}
	for _, id := range t.Participants {
		if id == userID {
			return nil // set semantics, mirrors $addToSet
		}
	}
	t.Participants = append(t.Participants, userID)
	r.tournaments[tournamentID] = t
	return nil
}

func (r *MemoryTournamentRepository) UpdateStatus(_ context.Context, id string, status models.TournamentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tournaments[id]
	if !ok {
		return ErrTournamentNotFound
	}
	t.Status = status
	r.tournaments[id] = t
	return nil
}

func cloneTournament(t models.Tournament) models.Tournament {
	participants := make([]string, len(t.Participants))
	copy(participants, t.Participants)
	t.Participants = participants
	return t
}

type MemoryMatchRepository struct {
	mu      sync.RWMutex
	matches map[string]models.Match
}

func NewMemoryMatchRepository() *MemoryMatchRepository {
	return &MemoryMatchRepository{matches: make(map[string]models.Match)}
}

func (r *MemoryMatchRepository) Create(_ context.Context, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[match.ID] = *match
	return nil
}

func (r *MemoryMatchRepository) GetByID(_ context.Context, id string) (*models.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return &m, nil
}

func (r *MemoryMatchRepository) Update(_ context.Context, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[match.ID]; !ok {
		return ErrMatchNotFound
	}
	r.matches[match.ID] = *match
	return nil
}

func (r *MemoryMatchRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[id]; !ok {
		return ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

func (r *MemoryMatchRepository) List(_ context.Context, limit int) ([]models.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]models.Match, 0, len(r.matches))
	for _, m := range r.matches {
		matches = append(matches, m)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Date < matches[j].Date })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

type MemoryNewsRepository struct {
	mu    sync.RWMutex
	posts map[string]models.News
}

func NewMemoryNewsRepository() *MemoryNewsRepository {
	return &MemoryNewsRepository{posts: make(map[string]models.News)}
}

func (r *MemoryNewsRepository) Create(_ context.Context, news *models.News) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[news.ID] = *news
	return nil
}

func (r *MemoryNewsRepository) GetByID(_ context.Context, id string) (*models.News, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.posts[id]
	if !ok {
		return nil, ErrNewsNotFound
	}
	return &n, nil
}

func (r *MemoryNewsRepository) Update(_ context.Context, news *models.News) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[news.ID]; !ok {
		return ErrNewsNotFound
	}
	r.posts[news.ID] = *news
	return nil
}

func (r *MemoryNewsRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return ErrNewsNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *MemoryNewsRepository) List(_ context.Context, limit int) ([]models.News, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	posts := make([]models.News, 0, len(r.posts))
	for _, n := range r.posts {
		posts = append(posts, n)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].PublishedAt.After(posts[j].PublishedAt) })
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

type MemoryTrainingRepository struct {
	mu    sync.RWMutex
	slots map[string]models.TrainingSchedule
}

func NewMemoryTrainingRepository() *MemoryTrainingRepository {
	return &MemoryTrainingRepository{slots: make(map[string]models.TrainingSchedule)}
}

func (r *MemoryTrainingRepository) Create(_ context.Context, slot *models.TrainingSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slots[slot.ID] = *slot
	return nil
}

func (r *MemoryTrainingRepository) GetByID(_ context.Context, id string) (*models.TrainingSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.slots[id]
	if !ok {
		return nil, ErrScheduleNotFound
	}
	return &s, nil
}

func (r *MemoryTrainingRepository) Update(_ context.Context, slot *models.TrainingSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[slot.ID]; !ok {
		return ErrScheduleNotFound
	}
	r.slots[slot.ID] = *slot
	return nil
}

func (r *MemoryTrainingRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; !ok {
		return ErrScheduleNotFound
	}
	delete(r.slots, id)
	return nil
}

func (r *MemoryTrainingRepository) List(_ context.Context) ([]models.TrainingSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	slots := make([]models.TrainingSchedule, 0, len(r.slots))
	for _, s := range r.slots {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].ID < slots[j].ID })
	return slots, nil
}

func (r *MemoryTrainingRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.slots)), nil
}

func (r *MemoryTrainingRepository) InsertMany(_ context.Context, slots []models.TrainingSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range slots {
		r.slots[s.ID] = s
	}
	return nil
}

type MemoryReferentRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]models.ReferentRequest
}

func NewMemoryReferentRequestRepository() *MemoryReferentRequestRepository {
	return &MemoryReferentRequestRepository{requests: make(map[string]models.ReferentRequest)}
}

func (r *MemoryReferentRequestRepository) Upsert(_ context.Context, request *models.ReferentRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	request.Email = strings.ToLower(request.Email)
	r.requests[request.Email] = *request
	return nil
}

func (r *MemoryReferentRequestRepository) GetByEmail(_ context.Context, email string) (*models.ReferentRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.requests[strings.ToLower(email)]
	if !ok {
		return nil, ErrReferentRequestNotFound
	}
	return &req, nil
}

func (r *MemoryReferentRequestRepository) DeleteByEmail(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(email)
	if _, ok := r.requests[email]; !ok {
		return ErrReferentRequestNotFound
	}
	delete(r.requests, email)
	return nil
}

func (r *MemoryReferentRequestRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var purged int64
	for email, req := range r.requests {
		if now.After(req.ExpiresAt) {
			delete(r.requests, email)
			purged++
		}
	}
	return purged, nil
}
