// Package access holds the ownership predicate applied before every view,
// edit or delete of a URL record. Existence must be checked before
// ownership; a missing record is "not found", never "forbidden".
package access

import "github.com/patric-chuzhbe/tinylink/internal/models"

// CanAccess reports whether the session user may view, edit or delete the
// record. It is false for an anonymous session (empty user id) and for a
// nil record, and never panics.
func CanAccess(sessionUserID string, record *models.URLRecord) bool {
	if sessionUserID == "" || record == nil {
		return false
	}

	return IsOwner(sessionUserID, record)
}

// IsOwner reports whether the given user id matches the record's owner.
// The record must be known to exist; callers compose Exists and IsOwner
// in that order.
func IsOwner(userID string, record *models.URLRecord) bool {
	return record != nil && record.OwnerID == userID
}
