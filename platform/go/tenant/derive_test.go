package tenant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestShortID(t *testing.T) {
	id := uuid.MustParse("1a2b3c4d-5e6f-7081-92a3-b4c5d6e7f809")
	require.Equal(t, "1a2b3c4d", ShortID(id))
}

func TestBuildBasePrefix(t *testing.T) {
	require.Equal(t, "dev/tenants/1a2b3c4d/", BuildBasePrefix("dev", "1a2b3c4d"))
	require.Equal(t, "prod/tenants/1a2b3c4d/", BuildBasePrefix("/prod/", "1a2b3c4d"))
	require.Equal(t, "tenants/1a2b3c4d/", BuildBasePrefix("", "1a2b3c4d"))
}

func TestSpaceFolder(t *testing.T) {
	id := uuid.MustParse("1a2b3c4d-5e6f-7081-92a3-b4c5d6e7f809")
	space := NewSpace("dev", id, "acme")

	require.Equal(t, "dev/tenants/1a2b3c4d/", space.BasePrefix)
	require.Equal(t, "dev/tenants/1a2b3c4d/profile", space.Folder("profile"))
	require.Equal(t, "dev/tenants/1a2b3c4d/experience", space.Folder("/experience/"))
	require.Equal(t, "dev/tenants/1a2b3c4d", space.Folder(""))
}
