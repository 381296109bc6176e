package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnerPolicy(t *testing.T) {
	var p Policy = OwnerPolicy{}
	anonymous := Caller{}
	owner := Caller{ID: 7, ExternalID: "u-7"}
	other := Caller{ID: 8, ExternalID: "u-8"}

	assert.False(t, p.CanList(anonymous))
	assert.False(t, p.CanCreate(anonymous))
	assert.False(t, p.CanRetrieve(anonymous, 0))
	assert.True(t, p.CanList(owner))
	assert.True(t, p.CanCreate(owner))

	assert.True(t, p.CanRetrieve(owner, 7))
	assert.True(t, p.CanUpdate(owner, 7))
	assert.True(t, p.CanDelete(owner, 7))
	assert.False(t, p.CanRetrieve(other, 7))
	assert.False(t, p.CanUpdate(other, 7))
	assert.False(t, p.CanDelete(other, 7))
}

func TestAuthenticatedPolicy(t *testing.T) {
	var p Policy = AuthenticatedPolicy{}
	assert.False(t, p.CanList(Caller{}))
	assert.False(t, p.CanDelete(Caller{}, 1))
	assert.True(t, p.CanUpdate(Caller{ID: 2}, 1))
}

func TestScopingString(t *testing.T) {
	assert.Equal(t, "owner-filtered", OwnerFiltered.String())
	assert.Equal(t, "permission-checked", PermissionChecked.String())
	assert.Equal(t, "unknown", Scoping(9).String())
}
