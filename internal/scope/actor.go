package scope

// Role is the fixed role set assigned at signup.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleStaff  Role = "staff"
	RoleTenant Role = "tenant"
)

// Action classifies an operation for authorization purposes.
type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// Actor is the resolved identity a request acts as. It is built once by the
// auth middleware and passed explicitly into every core operation; nothing in
// the core reads session state from ambient context.
type Actor struct {
	ID   uint
	Role Role

	// WorkingSocietyID is set only for staff: the society the guard is posted to.
	WorkingSocietyID *uint
}

// PostedTo reports whether a staff actor is posted to the given society.
func (a *Actor) PostedTo(societyID uint) bool {
	return a != nil && a.Role == RoleStaff &&
		a.WorkingSocietyID != nil && *a.WorkingSocietyID == societyID
}
