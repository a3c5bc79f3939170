package models

// VisibleTo reports whether a record owned by ownerUserID/ownerOrgID may be
// seen by the given caller. Callers in an organization see everything the
// organization owns; callers without one see only their own records.
func VisibleTo(ownerUserID, ownerOrgID, userID, organizationID string) bool {
	if organizationID != "" {
		return ownerOrgID == organizationID
	}
	return ownerOrgID == "" && ownerUserID == userID
}
