package entity

import "time"

// SoftDeletable is implemented by every record that is archived instead of erased.
type SoftDeletable interface {
	Deleted() bool
	SoftDelete(at time.Time) bool
	Restore(at time.Time) bool
}

// Scope selects which rows a repository query sees.
type Scope int

const (
	// ScopeActive hides soft-deleted rows.
	ScopeActive Scope = iota
	// ScopeAll includes soft-deleted rows. Integrity checks and archival views only.
	ScopeAll
)

// Archivable carries the archival columns shared by every core table.
type Archivable struct {
	IsDeleted bool       `json:"is_deleted" db:"is_deleted"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func newArchivable(now time.Time) Archivable {
	return Archivable{CreatedAt: now, UpdatedAt: now}
}

func (s *Archivable) Deleted() bool {
	return s.IsDeleted
}

// SoftDelete marks the record deleted. It reports false when the record was
// already deleted, so callers can react to the false -> true edge only.
func (s *Archivable) SoftDelete(at time.Time) bool {
	if s.IsDeleted {
		return false
	}
	s.IsDeleted = true
	s.DeletedAt = &at
	s.UpdatedAt = at
	return true
}

// Restore reverses SoftDelete. It reports false when there was nothing to restore.
func (s *Archivable) Restore(at time.Time) bool {
	if !s.IsDeleted {
		return false
	}
	s.IsDeleted = false
	s.DeletedAt = nil
	s.UpdatedAt = at
	return true
}

// Ref points at a record that blocks an operation, e.g. a campaign preventing
// a service from being purged.
type Ref struct {
	Kind    string `json:"kind"`
	ID      string `json:"id"`
	Label   string `json:"label"`
	Deleted bool   `json:"deleted"`
}
