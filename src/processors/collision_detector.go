package processors

import "github.com/username/finansdefter/backend/src/models"

// Snapshot indexes the persisted records of one kind by identity. It is built once
// per import run, so duplicates inside the same batch are not detected here.
type Snapshot map[string]models.Record

// NewSnapshot indexes records; the first record of a repeated identity wins.
func NewSnapshot(records []models.Record) Snapshot {
	s := make(Snapshot, len(records))
	for _, r := range records {
		if _, ok := s[r.Identity()]; !ok {
			s[r.Identity()] = r
		}
	}
	return s
}

// Lookup returns the persisted record sharing identity, if any.
func (s Snapshot) Lookup(identity string) (models.Record, bool) {
	r, ok := s[identity]
	return r, ok
}

// DetectCollisions pairs every pending item with the persisted record sharing its
// identity. The pending list itself is left untouched; conflicts plus clean items
// always add up to len(pending).
func DetectCollisions(kind models.Kind, pending []models.PendingItem, snapshot Snapshot) (conflicts []models.Conflict, clean int) {
	for _, item := range pending {
		if existing, ok := snapshot.Lookup(item.Identifier); ok {
			conflicts = append(conflicts, models.Conflict{Kind: kind, Existing: existing, New: item.Record})
			continue
		}
		clean++
	}
	return conflicts, clean
}
