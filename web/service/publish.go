package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/tridentstudios/sitepanel/config"
	"github.com/tridentstudios/sitepanel/database/model"
	"github.com/tridentstudios/sitepanel/logger"
)

// auditRecorder is what the publish pipeline needs from the audit log: a
// best-effort append that never fails the caller.
type auditRecorder interface {
	Record(actorEmail, action, details string)
}

// Receipt identifies the backup a successful publish or restore created.
type Receipt struct {
	BackupFilename string    `json:"backupFilename"`
	PageName       string    `json:"pageName"`
	Timestamp      time.Time `json:"timestamp"`
}

// PublishService atomically replaces a page's persisted content after
// backing up the previous version. Each page has its own lock so one
// publish's backup+write+prune sequence can never interleave with another
// to the same page; publishes to different pages stay independent.
type PublishService struct {
	policy config.Policy
	store  *BackupStore
	access AccessPolicy
	audit  auditRecorder

	mu        sync.Mutex
	pageLocks map[string]*sync.Mutex
}

func NewPublishService(policy config.Policy, store *BackupStore, audit auditRecorder) *PublishService {
	return &PublishService{
		policy:    policy,
		store:     store,
		audit:     audit,
		pageLocks: make(map[string]*sync.Mutex),
	}
}

// Publish validates the request, snapshots the page's current content into
// the backup store, overwrites the live snapshot, records the action and
// prunes old backups. The backup is taken strictly before the write: a
// crash between the two leaves the old content live with an extra backup,
// never new content with no backup.
func (s *PublishService) Publish(pageName, fullPageContent string, actor *model.User) (*Receipt, error) {
	if !s.policy.PageAllowed(pageName) {
		return nil, ErrInvalidTarget
	}
	if fullPageContent == "" {
		return nil, ErrEmptyContent
	}
	if err := s.access.Authorize(actor, ActionPublish); err != nil {
		return nil, err
	}

	lock := s.pageLock(pageName)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now()
	var backupName string
	if s.store.LiveExists(pageName) {
		name, err := s.store.Snapshot(pageName, false, now)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBackupFailed, err)
		}
		backupName = name
	}

	if err := writeFileAtomic(s.store.LivePath(pageName), []byte(fullPageContent)); err != nil {
		// The pre-write backup still exists, so nothing is lost.
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	if s.audit != nil {
		email := ""
		if actor != nil {
			email = actor.Email
		}
		s.audit.Record(email, "Published changes", pageName)
	}

	// Prune only after the new entry is recorded.
	if _, err := s.store.Prune(pageName); err != nil {
		logger.Warningf("backup prune after publish failed for %s: %v", pageName, err)
	}

	return &Receipt{
		BackupFilename: backupName,
		PageName:       pageName,
		Timestamp:      now,
	}, nil
}

// PageContent returns a page's current live snapshot for the editor to
// observe. The page must be on the allow-list.
func (s *PublishService) PageContent(pageName string) (string, error) {
	if !s.policy.PageAllowed(pageName) {
		return "", ErrInvalidTarget
	}
	data, err := s.store.ReadLive(pageName)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *PublishService) pageLock(pageName string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.pageLocks[pageName]
	if !ok {
		lock = &sync.Mutex{}
		s.pageLocks[pageName] = lock
	}
	return lock
}
