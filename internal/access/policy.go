package access

// Caller is the identity a request runs as. The zero value is anonymous.
type Caller struct {
	ID         int64
	ExternalID string
	Username   string
	Email      string
}

func (c Caller) Authenticated() bool {
	return c.ID != 0
}

// Scoping selects how a resource restricts its queries to the caller.
type Scoping int

const (
	// OwnerFiltered resources carry owner_id = caller in every query.
	OwnerFiltered Scoping = iota
	// PermissionChecked resources load the record first and ask the policy.
	PermissionChecked
)

func (s Scoping) String() string {
	switch s {
	case OwnerFiltered:
		return "owner-filtered"
	case PermissionChecked:
		return "permission-checked"
	}
	return "unknown"
}

// Policy decides collection and object level permissions.
type Policy interface {
	CanList(c Caller) bool
	CanCreate(c Caller) bool
	CanRetrieve(c Caller, ownerID int64) bool
	CanUpdate(c Caller, ownerID int64) bool
	CanDelete(c Caller, ownerID int64) bool
}

// OwnerPolicy lets authenticated callers work with their own records only.
type OwnerPolicy struct{}

func (OwnerPolicy) CanList(c Caller) bool { return c.Authenticated() }
func (OwnerPolicy) CanCreate(c Caller) bool { return c.Authenticated() }

func (OwnerPolicy) CanRetrieve(c Caller, ownerID int64) bool {
	return c.Authenticated() && c.ID == ownerID
}

func (OwnerPolicy) CanUpdate(c Caller, ownerID int64) bool {
	return c.Authenticated() && c.ID == ownerID
}

func (OwnerPolicy) CanDelete(c Caller, ownerID int64) bool {
	return c.Authenticated() && c.ID == ownerID
}

// AuthenticatedPolicy admits any authenticated caller. It is paired with
// OwnerFiltered scoping, where the query already excludes other owners.
type AuthenticatedPolicy struct{}

func (AuthenticatedPolicy) CanList(c Caller) bool { return c.Authenticated() }
func (AuthenticatedPolicy) CanCreate(c Caller) bool { return c.Authenticated() }
func (AuthenticatedPolicy) CanRetrieve(c Caller, _ int64) bool { return c.Authenticated() }
func (AuthenticatedPolicy) CanUpdate(c Caller, _ int64) bool { return c.Authenticated() }
func (AuthenticatedPolicy) CanDelete(c Caller, _ int64) bool { return c.Authenticated() }
