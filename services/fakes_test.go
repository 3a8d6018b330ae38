package services

import (
	"sort"
	"sync"
	"time"

	"github.com/pawprint-social/moderation-api/models"
)

// In-memory repository fakes shared by the service tests.

type fakeQueueRepo struct {
	mu     sync.Mutex
	nextID uint
	items  map[uint]*models.QueueItem
	acts   []models.ModerationAction
	users  *fakeUserRepo // receives subject writes from Transition
}

func newFakeQueueRepo() *fakeQueueRepo {
	return &fakeQueueRepo{nextID: 1, items: make(map[uint]*models.QueueItem)}
}

func (r *fakeQueueRepo) GetByID(id uint) (*models.QueueItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (r *fakeQueueRepo) FindActive(contentType, contentID string) (*models.QueueItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.ContentType == contentType && item.ContentID == contentID && !models.IsTerminalStatus(item.Status) {
			cp := *item
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeQueueRepo) Create(item *models.QueueItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.ID = r.nextID
	r.nextID++
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeQueueRepo) Save(item *models.QueueItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeQueueRepo) List(filter QueueFilter, page, pageSize int) ([]models.QueueItem, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var filtered []models.QueueItem
	for _, item := range r.items {
		if filter.QueueType != "" && item.QueueType != filter.QueueType {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		filtered = append(filtered, *item)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		ri, rj := models.PriorityRank(filtered[i].Priority), models.PriorityRank(filtered[j].Priority)
		if ri != rj {
			return ri > rj
		}
		return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
	})
	total := int64(len(filtered))
	start := (page - 1) * pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], total, nil
}

func (r *fakeQueueRepo) CountActiveByQueueType() (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, item := range r.items {
		if !models.IsTerminalStatus(item.Status) {
			counts[item.QueueType]++
		}
	}
	return counts, nil
}

func (r *fakeQueueRepo) CountPending() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, item := range r.items {
		if item.Status == models.StatusPending {
			n++
		}
	}
	return n, nil
}

func (r *fakeQueueRepo) CountActiveUrgent() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, item := range r.items {
		if item.Priority == models.PriorityUrgent && !models.IsTerminalStatus(item.Status) {
			n++
		}
	}
	return n, nil
}

func (r *fakeQueueRepo) Transition(item *models.QueueItem, fromVersion int64, action *models.ModerationAction, subject *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[item.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != fromVersion {
		return ErrConflict
	}
	stored.Status = item.Status
	stored.Priority = item.Priority
	stored.Notes = item.Notes
	stored.AssignedTo = item.AssignedTo
	stored.ReviewedAt = item.ReviewedAt
	stored.Version = fromVersion + 1
	item.Version = stored.Version
	if action != nil {
		r.acts = append(r.acts, *action)
	}
	if subject != nil && r.users != nil {
		return r.users.SaveUser(subject)
	}
	return nil
}

// staleReadQueueRepo serves a pre-captured snapshot for one GetByID call,
// standing in for a reader that raced another writer.
type staleReadQueueRepo struct {
	*fakeQueueRepo
	stale *models.QueueItem
}

func (r *staleReadQueueRepo) GetByID(id uint) (*models.QueueItem, error) {
	if r.stale != nil && r.stale.ID == id {
		cp := *r.stale
		r.stale = nil
		return &cp, nil
	}
	return r.fakeQueueRepo.GetByID(id)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		cp := *u
		r.users[u.ID] = &cp
	}
	return r
}

func (r *fakeUserRepo) GetUser(id uint) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) SaveUser(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []models.AuditLog
}

func (a *fakeAudit) Record(entry models.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

func (a *fakeAudit) all() []models.AuditLog {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.AuditLog(nil), a.entries...)
}

type fakeRevisionRepo struct {
	mu       sync.Mutex
	nextID   uint
	flags    map[uint]*models.FlaggedRevision
	revs     map[uint]*models.WikiRevision
	articles map[uint]*models.WikiArticle
}

func newFakeRevisionRepo() *fakeRevisionRepo {
	return &fakeRevisionRepo{
		nextID:   1,
		flags:    make(map[uint]*models.FlaggedRevision),
		revs:     make(map[uint]*models.WikiRevision),
		articles: make(map[uint]*models.WikiArticle),
	}
}

func (r *fakeRevisionRepo) addRevision(rev models.WikiRevision) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rev.ID == 0 {
		rev.ID = r.nextID
		r.nextID++
	} else if rev.ID >= r.nextID {
		r.nextID = rev.ID + 1
	}
	r.revs[rev.ID] = &rev
	return rev.ID
}

func (r *fakeRevisionRepo) addFlag(fr models.FlaggedRevision) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	if fr.ID == 0 {
		fr.ID = r.nextID
		r.nextID++
	}
	r.flags[fr.ID] = &fr
	return fr.ID
}

func (r *fakeRevisionRepo) GetFlagged(id uint) (*models.FlaggedRevision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fr, ok := r.flags[id]
	if !ok {
		return nil, nil
	}
	cp := *fr
	return &cp, nil
}

func (r *fakeRevisionRepo) FindActiveFlagByRevision(revisionID uint) (*models.FlaggedRevision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, fr := range r.flags {
		if fr.RevisionID == revisionID && !models.IsTerminalFlagStatus(fr.Status) {
			cp := *fr
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRevisionRepo) CreateFlagged(fr *models.FlaggedRevision) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fr.ID = r.nextID
	r.nextID++
	cp := *fr
	r.flags[fr.ID] = &cp
	return nil
}

func (r *fakeRevisionRepo) GetRevision(id uint) (*models.WikiRevision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.revs[id]
	if !ok {
		return nil, nil
	}
	cp := *rev
	return &cp, nil
}

func (r *fakeRevisionRepo) LatestStable(articleID uint) (*models.WikiRevision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.WikiRevision
	for _, rev := range r.revs {
		if rev.ArticleID != articleID || rev.Status != models.RevisionStable {
			continue
		}
		if latest == nil || rev.Rev > latest.Rev {
			latest = rev
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeRevisionRepo) CountRevisions(articleID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, rev := range r.revs {
		if rev.ArticleID == articleID {
			n++
		}
	}
	return n, nil
}

func (r *fakeRevisionRepo) cas(fr *models.FlaggedRevision, fromVersion int64) error {
	stored, ok := r.flags[fr.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != fromVersion {
		return ErrConflict
	}
	stored.Status = fr.Status
	stored.AssignedTo = fr.AssignedTo
	stored.ApprovedBy = fr.ApprovedBy
	stored.ApprovedAt = fr.ApprovedAt
	stored.Version = fromVersion + 1
	fr.Version = stored.Version
	return nil
}

func (r *fakeRevisionRepo) Assign(fr *models.FlaggedRevision, fromVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cas(fr, fromVersion)
}

func (r *fakeRevisionRepo) ApproveStable(fr *models.FlaggedRevision, fromVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.cas(fr, fromVersion); err != nil {
		return err
	}
	if rev, ok := r.revs[fr.RevisionID]; ok {
		rev.Status = models.RevisionStable
		rev.ApprovedByID = fr.ApprovedBy
		rev.ApprovedAt = fr.ApprovedAt
	}
	return nil
}

func (r *fakeRevisionRepo) Rollback(fr *models.FlaggedRevision, fromVersion int64, newRev *models.WikiRevision) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.cas(fr, fromVersion); err != nil {
		return err
	}
	newRev.ID = r.nextID
	r.nextID++
	cp := *newRev
	r.revs[newRev.ID] = &cp
	return nil
}

type fakeExpertDirectory struct {
	profiles map[uint]*models.ExpertProfile
}

func (d *fakeExpertDirectory) Lookup(userID uint) (*models.ExpertProfile, bool, error) {
	profile, ok := d.profiles[userID]
	if !ok {
		return nil, true, nil
	}
	return profile, true, nil
}
