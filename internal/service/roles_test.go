package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for name, want := range map[string]Role{
		"viewer": RoleViewer,
		"admin":  RoleAdmin,
		"owner":  RoleOwner,
	} {
		got, err := ParseRole(name)
		require.NoError(t, err)
		require.Equal(t, want, got)
		require.Equal(t, name, got.String())
	}
}

func TestParseRoleFailsClosed(t *testing.T) {
	for _, name := range []string{"", "Viewer", "OWNER", "superuser", "root", "admin "} {
		_, err := ParseRole(name)
		require.ErrorIs(t, err, ErrInvalidRole, "role %q must not parse", name)
	}
}

func TestRoleAtLeast(t *testing.T) {
	cases := []struct {
		have, need Role
		ok         bool
	}{
		{RoleViewer, RoleViewer, true},
		{RoleViewer, RoleAdmin, false},
		{RoleViewer, RoleOwner, false},
		{RoleAdmin, RoleViewer, true},
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleOwner, false},
		{RoleOwner, RoleViewer, true},
		{RoleOwner, RoleAdmin, true},
		{RoleOwner, RoleOwner, true},
	}
	for _, tc := range cases {
		require.Equal(t, tc.ok, tc.have.AtLeast(tc.need), "%s at least %s", tc.have, tc.need)
	}
}
