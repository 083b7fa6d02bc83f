package model

// Identity is the request-scoped description of the caller.  It is
// built by the authentication middleware from the bearer token and
// handed to every operation that needs to gate on role; nothing in the
// engine consults ambient session state.  A zero Identity is an
// anonymous guest.
type Identity struct {
	UserID      uint64
	IsStaff     bool
	IsSuperuser bool
	IsActive    bool
}

// CanManage reports whether the caller may perform staff-only
// mutations (table registry, reservation lifecycle, stats).
func (i Identity) CanManage() bool {
	return i.IsActive && (i.IsStaff || i.IsSuperuser)
}

// CanAdminister reports whether the caller may manage staff accounts.
func (i Identity) CanAdminister() bool {
	return i.IsActive && i.IsSuperuser
}
