package treewalk_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/idelchi/treewalk/internal/treewalk"
)

func TestError_MatchesSentinelOfItsKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind     treewalk.Kind
		sentinel error
		name     string
	}{
		{kind: treewalk.KindInvalidRoot, sentinel: treewalk.ErrInvalidRoot, name: "invalid-root"},
		{kind: treewalk.KindDirectoryUnreadable, sentinel: treewalk.ErrDirectoryUnreadable, name: "directory-unreadable"},
		{kind: treewalk.KindActionFailed, sentinel: treewalk.ErrActionFailed, name: "action-failed"},
		{kind: treewalk.KindCancelled, sentinel: treewalk.ErrCancelled, name: "cancelled"},
	}

	all := []error{
		treewalk.ErrInvalidRoot, treewalk.ErrDirectoryUnreadable,
		treewalk.ErrActionFailed, treewalk.ErrCancelled,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fmt.Errorf("wrapped: %w", &treewalk.Error{Kind: tt.kind, Op: "op", Err: os.ErrNotExist})

			assert.Equal(t, tt.name, tt.kind.String())
			require.ErrorIs(t, err, os.ErrNotExist)

			for _, sentinel := range all {
				assert.Equal(t, sentinel == tt.sentinel, errors.Is(err, sentinel))
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	t.Parallel()

	err := &treewalk.Error{
		Kind: treewalk.KindActionFailed,
		Op:   treewalk.OpAction,
		Path: "/tmp/x",
		Err:  errors.New("boom"),
	}
	assert.Equal(t, "action-failed: action /tmp/x: boom", err.Error())

	err.Path = ""
	assert.Equal(t, "action-failed: action: boom", err.Error())
}

func TestError_Serializes(t *testing.T) {
	t.Parallel()

	err := &treewalk.Error{
		Kind: treewalk.KindDirectoryUnreadable,
		Op:   treewalk.OpListDirs,
		Path: "/srv/data",
		Err:  os.ErrPermission,
	}

	data, jsonErr := json.Marshal(err)
	require.NoError(t, jsonErr)
	assert.JSONEq(t,
		`{"kind":"directory-unreadable","op":"list-dirs","path":"/srv/data","message":"permission denied"}`,
		string(data))

	out, yamlErr := yaml.Marshal(err)
	require.NoError(t, yamlErr)
	assert.Contains(t, string(out), "kind: directory-unreadable")
	assert.Contains(t, string(out), "message: permission denied")
}
