package services

import (
	"log"
	"sync"
	"time"

	"github.com/pawprint-social/moderation-api/models"
)

// MaxAuditQueueAttempts bounds how often a queued audit entry is retried
// before it is dropped.
const MaxAuditQueueAttempts = 5

// AuditRepository is the persistence surface the audit service needs.
type AuditRepository interface {
	Insert(entry *models.AuditLog) error
	Enqueue(entry *models.AuditQueueEntry) error
	PendingQueue(maxAttempts int) ([]models.AuditQueueEntry, error)
	DeleteQueued(id uint) error
	BumpAttempts(entry *models.AuditQueueEntry) error
	PurgeExhausted(maxAttempts int) (int64, error)
	ByActor(actorID uint, limit int) ([]models.AuditLog, error)
	ByTarget(targetType, targetID string, limit int) ([]models.AuditLog, error)
	ByAction(action string, limit int) ([]models.AuditLog, error)
}

// AuditService appends trust-affecting actions to the audit log. Writes go
// through a bounded channel consumed by a background worker, so the primary
// transaction never waits on or fails with the audit store. Every recorded
// entry is attempted at least once: a full channel degrades to a direct
// best-effort write instead of dropping the entry.
type AuditService struct {
	repo AuditRepository

	ch   chan models.AuditLog
	wg   sync.WaitGroup
	once sync.Once
}

func NewAuditService(repo AuditRepository) *AuditService {
	return &AuditService{
		repo: repo,
		ch:   make(chan models.AuditLog, 256),
	}
}

// Start launches the background writer.
func (s *AuditService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for entry := range s.ch {
			s.write(entry)
		}
	}()
}

// Close drains pending entries and stops the worker.
func (s *AuditService) Close() {
	s.once.Do(func() { close(s.ch) })
	s.wg.Wait()
}

// Record submits one audit entry. It never blocks and never returns an
// error; failures are counted on the monitoring side-channel.
func (s *AuditService) Record(entry models.AuditLog) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	select {
	case s.ch <- entry:
	default:
		// Worker is behind; still attempt the write so the at-least-once
		// guarantee holds.
		s.write(entry)
	}
}

// write inserts directly and falls back to the retry queue on failure.
func (s *AuditService) write(entry models.AuditLog) {
	if err := s.repo.Insert(&entry); err == nil {
		return
	} else {
		log.Printf("audit: direct write failed for %s on %s/%s: %v", entry.Action, entry.TargetType, entry.TargetID, err)
	}
	auditWriteFailures.Inc()

	queued := models.AuditQueueEntry{
		CreatedAt:  entry.CreatedAt,
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		TargetType: entry.TargetType,
		TargetID:   entry.TargetID,
		Reason:     entry.Reason,
		Metadata:   entry.Metadata,
	}
	if err := s.repo.Enqueue(&queued); err != nil {
		log.Printf("audit: queue fallback failed for %s on %s/%s: %v", entry.Action, entry.TargetType, entry.TargetID, err)
		auditDropped.Inc()
	}
}

// ProcessQueue flushes queued entries back into the audit log, preserving
// their original timestamps. Entries that keep failing are retried up to
// MaxAuditQueueAttempts and then purged. Returns the number flushed.
func (s *AuditService) ProcessQueue() int {
	pending, err := s.repo.PendingQueue(MaxAuditQueueAttempts)
	if err != nil {
		log.Printf("audit: reading queue failed: %v", err)
		return 0
	}

	flushed := 0
	for i := range pending {
		entry := pending[i]
		logEntry := models.AuditLog{
			CreatedAt:  entry.CreatedAt,
			ActorID:    entry.ActorID,
			Action:     entry.Action,
			TargetType: entry.TargetType,
			TargetID:   entry.TargetID,
			Reason:     entry.Reason,
			Metadata:   entry.Metadata,
		}
		if err := s.repo.Insert(&logEntry); err != nil {
			now := time.Now()
			entry.Attempts++
			entry.LastAttempt = &now
			if err := s.repo.BumpAttempts(&entry); err != nil {
				log.Printf("audit: bumping attempts for queued entry %d failed: %v", entry.ID, err)
			}
			continue
		}
		if err := s.repo.DeleteQueued(entry.ID); err != nil {
			log.Printf("audit: deleting flushed queue entry %d failed: %v", entry.ID, err)
		}
		flushed++
	}

	if purged, err := s.repo.PurgeExhausted(MaxAuditQueueAttempts); err == nil && purged > 0 {
		log.Printf("audit: dropped %d queued entries after %d attempts", purged, MaxAuditQueueAttempts)
	}
	return flushed
}

// ByActor returns recent audit entries for one actor.
func (s *AuditService) ByActor(actorID uint, limit int) ([]models.AuditLog, error) {
	return s.repo.ByActor(actorID, normalizeLimit(limit))
}

// ByTarget returns recent audit entries for one entity.
func (s *AuditService) ByTarget(targetType, targetID string, limit int) ([]models.AuditLog, error) {
	return s.repo.ByTarget(targetType, targetID, normalizeLimit(limit))
}

// ByAction returns recent audit entries for one action key.
func (s *AuditService) ByAction(action string, limit int) ([]models.AuditLog, error) {
	return s.repo.ByAction(action, normalizeLimit(limit))
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 100
	}
	return limit
}
