package services

import (
	"time"

	"github.com/pawprint-social/moderation-api/models"
	"github.com/pawprint-social/moderation-api/utils"
)

// ExpertDirectory is the optional expert-profile lookup. When no directory
// is wired, NullExpertDirectory stands in and reports every profile as
// unknown; callers never type-check for its presence.
type ExpertDirectory interface {
	// Lookup returns the profile and whether the directory could answer at
	// all. known=false means "no directory data", not "no such expert".
	Lookup(userID uint) (profile *models.ExpertProfile, known bool, err error)
}

// NullExpertDirectory always answers "unknown".
type NullExpertDirectory struct{}

func (NullExpertDirectory) Lookup(uint) (*models.ExpertProfile, bool, error) {
	return nil, false, nil
}

// RevisionRepository is the persistence surface of the revision workflow.
// The transition methods are compare-and-set on the flagged revision
// version and return ErrConflict when the version is stale.
type RevisionRepository interface {
	GetFlagged(id uint) (*models.FlaggedRevision, error)
	FindActiveFlagByRevision(revisionID uint) (*models.FlaggedRevision, error)
	CreateFlagged(fr *models.FlaggedRevision) error
	GetRevision(id uint) (*models.WikiRevision, error)
	LatestStable(articleID uint) (*models.WikiRevision, error)
	CountRevisions(articleID uint) (int64, error)

	// Assign CAS-updates the assignment fields.
	Assign(fr *models.FlaggedRevision, fromVersion int64) error
	// ApproveStable CAS-updates the flagged revision, marks the underlying
	// revision stable and repoints the article, in one transaction.
	ApproveStable(fr *models.FlaggedRevision, fromVersion int64) error
	// Rollback creates the new revision, CAS-updates the flagged revision
	// and repoints the article, in one transaction.
	Rollback(fr *models.FlaggedRevision, fromVersion int64, newRev *models.WikiRevision) error
}

// RevisionWorkflow is the wiki content-approval state machine:
// flagged -> assigned -> approved, or rolled-back from either.
type RevisionWorkflow struct {
	repo    RevisionRepository
	queue   *QueueService
	experts ExpertDirectory
	audit   AuditRecorder
	now     func() time.Time
}

func NewRevisionWorkflow(repo RevisionRepository, queue *QueueService, experts ExpertDirectory, audit AuditRecorder) *RevisionWorkflow {
	if experts == nil {
		experts = NullExpertDirectory{}
	}
	return &RevisionWorkflow{repo: repo, queue: queue, experts: experts, audit: audit, now: time.Now}
}

// FlagParams describes a new flag on a wiki revision.
type FlagParams struct {
	RevisionID uint
	FlaggedBy  uint
	Reason     string
	Category   string
	Priority   string
	Notes      string
}

// Flag opens review for a revision. A revision with an active flag cannot
// be flagged again. The flag also lands in the moderation queue so it
// shows up in operator counts.
func (w *RevisionWorkflow) Flag(p FlagParams) (*models.FlaggedRevision, error) {
	if p.RevisionID == 0 || p.Reason == "" || p.Category == "" {
		return nil, ErrValidation
	}
	rev, err := w.repo.GetRevision(p.RevisionID)
	if err != nil {
		return nil, err
	}
	if rev == nil {
		return nil, ErrNotFound
	}
	if active, err := w.repo.FindActiveFlagByRevision(p.RevisionID); err != nil {
		return nil, err
	} else if active != nil {
		return nil, ErrDuplicateActiveItem
	}

	priority := p.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	fr := &models.FlaggedRevision{
		ArticleID:  rev.ArticleID,
		RevisionID: p.RevisionID,
		FlaggedBy:  p.FlaggedBy,
		FlagReason: p.Reason,
		Category:   p.Category,
		Priority:   priority,
		Status:     models.FlagStatusFlagged,
		Notes:      p.Notes,
	}
	if err := w.repo.CreateFlagged(fr); err != nil {
		return nil, err
	}

	if w.queue != nil {
		if _, err := w.queue.Report(models.QueueFlaggedRevision, "wiki-revision", itoa(p.RevisionID), rev.AuthorID, p.FlaggedBy, p.Reason); err != nil {
			// The flag itself stands; queue visibility is secondary.
			logQueueMiss(err)
		}
	}
	return fr, nil
}

// Assign hands a flagged revision to a verified expert. Assignment to an
// unverified or revoked expert is a hard failure; two concurrent assigns
// race on the version and the loser gets ErrConflict.
func (w *RevisionWorkflow) Assign(flaggedRevisionID, expertID uint, actorID uint, actorRoles []string) (*models.FlaggedRevision, error) {
	if !utils.HasAnyRole(actorRoles, utils.RoleAdmin, utils.RoleModerator, utils.RoleExpert) {
		return nil, ErrForbidden
	}
	fr, err := w.repo.GetFlagged(flaggedRevisionID)
	if err != nil {
		return nil, err
	}
	if fr == nil {
		return nil, ErrNotFound
	}
	if models.IsTerminalFlagStatus(fr.Status) {
		return nil, ErrConflict
	}

	profile, known, err := w.experts.Lookup(expertID)
	if err != nil {
		return nil, err
	}
	if known {
		if profile == nil {
			return nil, ErrNotFound
		}
		if profile.Status != models.ExpertVerified {
			return nil, ErrInvalidExpert
		}
	}

	fromVersion := fr.Version
	fr.Status = models.FlagStatusAssigned
	fr.AssignedTo = &expertID
	if err := w.repo.Assign(fr, fromVersion); err != nil {
		return nil, err
	}

	w.audit.Record(models.AuditLog{
		ActorID:    actorID,
		Action:     models.AuditWikiAssign,
		TargetType: "flagged_revision",
		TargetID:   itoa(fr.ID),
		Metadata:   `{"expertId":` + itoa(expertID) + `}`,
	})
	return fr, nil
}

// Approve marks the flagged revision's content stable. An actor whose only
// qualifying role is expert must hold a currently valid verification —
// checked live, because expert status can change between assignment and
// action.
func (w *RevisionWorkflow) Approve(flaggedRevisionID uint, actorID uint, actorRoles []string) (*models.FlaggedRevision, error) {
	if !utils.HasAnyRole(actorRoles, utils.RoleAdmin, utils.RoleModerator, utils.RoleExpert) {
		return nil, ErrForbidden
	}
	if utils.HasOnlyRole(actorRoles, utils.RoleExpert, utils.RoleAdmin, utils.RoleModerator) {
		if err := w.requireValidExpert(actorID); err != nil {
			return nil, err
		}
	}

	fr, err := w.repo.GetFlagged(flaggedRevisionID)
	if err != nil {
		return nil, err
	}
	if fr == nil {
		return nil, ErrNotFound
	}
	if models.IsTerminalFlagStatus(fr.Status) {
		return nil, ErrConflict
	}

	fromVersion := fr.Version
	now := w.now()
	fr.Status = models.FlagStatusApproved
	fr.ApprovedBy = &actorID
	fr.ApprovedAt = &now
	if err := w.repo.ApproveStable(fr, fromVersion); err != nil {
		return nil, err
	}

	w.audit.Record(models.AuditLog{
		ActorID:    actorID,
		Action:     models.AuditWikiApproveStable,
		TargetType: "flagged_revision",
		TargetID:   itoa(fr.ID),
	})
	return fr, nil
}

// Rollback restores the article's last stable content. History is never
// mutated in place: rollback appends a brand-new revision copying the
// stable content, numbered after the current count and pre-approved by the
// acting moderator, so it does not re-enter the flag queue.
func (w *RevisionWorkflow) Rollback(flaggedRevisionID uint, reason string, actorID uint, actorRoles []string) (*models.WikiRevision, error) {
	if !utils.HasAnyRole(actorRoles, utils.RoleAdmin, utils.RoleModerator, utils.RoleExpert) {
		return nil, ErrForbidden
	}
	if reason == "" {
		return nil, ErrValidation
	}

	fr, err := w.repo.GetFlagged(flaggedRevisionID)
	if err != nil {
		return nil, err
	}
	if fr == nil {
		return nil, ErrNotFound
	}
	if models.IsTerminalFlagStatus(fr.Status) {
		return nil, ErrConflict
	}

	stable, err := w.repo.LatestStable(fr.ArticleID)
	if err != nil {
		return nil, err
	}
	if stable == nil {
		return nil, ErrNoStableRevision
	}
	count, err := w.repo.CountRevisions(fr.ArticleID)
	if err != nil {
		return nil, err
	}

	now := w.now()
	newRev := &models.WikiRevision{
		ArticleID:    fr.ArticleID,
		Rev:          int(count) + 1,
		AuthorID:     actorID,
		ContentJSON:  stable.ContentJSON,
		InfoboxJSON:  stable.InfoboxJSON,
		Status:       models.RevisionStable,
		ApprovedByID: &actorID,
		ApprovedAt:   &now,
	}

	fromVersion := fr.Version
	fr.Status = models.FlagStatusRolledBack
	if err := w.repo.Rollback(fr, fromVersion, newRev); err != nil {
		return nil, err
	}

	w.audit.Record(models.AuditLog{
		ActorID:    actorID,
		Action:     models.AuditWikiRollback,
		TargetType: "article",
		TargetID:   itoa(fr.ArticleID),
		Reason:     reason,
		Metadata:   `{"flaggedRevisionId":` + itoa(fr.ID) + `,"restoredFrom":` + itoa(stable.ID) + `}`,
	})
	return newRev, nil
}

func (w *RevisionWorkflow) requireValidExpert(actorID uint) error {
	profile, known, err := w.experts.Lookup(actorID)
	if err != nil {
		return err
	}
	if !known || profile == nil || profile.Status != models.ExpertVerified {
		return ErrForbidden
	}
	if profile.ExpiresAt != nil && !profile.ExpiresAt.After(w.now()) {
		return ErrForbidden
	}
	return nil
}
