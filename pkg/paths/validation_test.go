package paths

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigtools/rigup/pkg/errors"
)

func TestValidateContainment(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		base    string
		wantErr bool
	}{
		{
			name: "base itself",
			path: "/home/user/.local/state/rigup/recovery",
			base: "/home/user/.local/state/rigup/recovery",
		},
		{
			name: "direct child",
			path: "/home/user/.local/state/rigup/recovery/20240101-120000",
			base: "/home/user/.local/state/rigup/recovery",
		},
		{
			name: "nested descendant",
			path: "/home/user/.local/state/rigup/recovery/20240101-120000/settings.json",
			base: "/home/user/.local/state/rigup/recovery",
		},
		{
			name:    "sibling escape via dot-dot",
			path:    "/home/user/.local/state/rigup/recovery/../elsewhere",
			base:    "/home/user/.local/state/rigup/recovery",
			wantErr: true,
		},
		{
			name:    "unrelated path",
			path:    "/etc/passwd",
			base:    "/home/user/.local/state/rigup/recovery",
			wantErr: true,
		},
		{
			name:    "prefix but not descendant",
			path:    "/home/user/.local/state/rigup/recovery-evil",
			base:    "/home/user/.local/state/rigup/recovery",
			wantErr: true,
		},
		{
			name:    "empty path",
			path:    "",
			base:    "/home/user",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateContainment(tt.path, tt.base)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateContainmentErrorCode(t *testing.T) {
	err := ValidateContainment("/tmp/elsewhere", "/home/user/.config/rig")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPathTraversal))
}
