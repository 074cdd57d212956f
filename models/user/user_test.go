package user

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// GORM only treats a delete as soft when the column uses its DeletedAt type.
var _ gorm.DeletedAt = User{}.DeletedAt

func TestUserJSONHidesInternalFields(t *testing.T) {
	t.Parallel()

	u := User{ID: 1, Username: "alice", Email: "alice@example.com", PasswordHash: "bcrypt-hash"}
	raw, err := json.Marshal(&u)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "alice", decoded["username"])
	assert.NotContains(t, decoded, "password_hash")
	assert.NotContains(t, decoded, "PasswordHash")
	assert.NotContains(t, decoded, "DeletedAt")
}
