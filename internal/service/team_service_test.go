package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/handypro/internal/domain"
	apperrors "github.com/spec-kit/handypro/pkg/util/errorutil"
)

func TestAddEditorCapacity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	for i := 1; i <= 4; i++ {
		_, err := env.team.AddEditor(ctx, adminActor, fmt.Sprintf("editor%d", i), "pw")
		require.NoError(t, err)
	}

	_, err := env.team.AddEditor(ctx, adminActor, "editor5", "pw")
	requireCode(t, err, apperrors.CodeCapacity)

	editors, err := env.team.ListEditors(ctx, adminActor)
	require.NoError(t, err)
	assert.Len(t, editors, 4)
}

func TestAddEditorUsernameIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, err := env.team.AddEditor(ctx, adminActor, "bob", "pw")
	require.NoError(t, err)

	_, err = env.team.AddEditor(ctx, adminActor, "Bob", "pw")
	requireCode(t, err, apperrors.CodeDuplicate)

	_, err = env.team.EnsureAdmin(ctx, "admin", "pw")
	require.NoError(t, err)
	_, err = env.team.AddEditor(ctx, adminActor, "ADMIN", "pw")
	requireCode(t, err, apperrors.CodeDuplicate)
}

func TestTeamOperationsRequireAdmin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.team.AddEditor(ctx, editorActor, "carol", "pw")
	requireCode(t, err, apperrors.CodeForbidden)
	_, err = env.team.ListEditors(ctx, editorActor)
	requireCode(t, err, apperrors.CodeForbidden)
	err = env.team.RemoveEditor(ctx, nil, "any")
	requireCode(t, err, apperrors.CodeForbidden)
}

func TestAddEditorValidation(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.team.AddEditor(context.Background(), adminActor, " ", "")
	domainErr := requireCode(t, err, apperrors.CodeValidation)
	assert.Contains(t, domainErr.Details, "username")
	assert.Contains(t, domainErr.Details, "password")
}

func TestRemoveEditorFreesASlot(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	var first *domain.User
	for i := 1; i <= 4; i++ {
		user, err := env.team.AddEditor(ctx, adminActor, fmt.Sprintf("editor%d", i), "pw")
		require.NoError(t, err)
		if first == nil {
			first = user
		}
	}

	require.NoError(t, env.team.RemoveEditor(ctx, adminActor, first.ID))
	_, err := env.team.AddEditor(ctx, adminActor, "editor5", "pw")
	require.NoError(t, err)

	err = env.team.RemoveEditor(ctx, adminActor, first.ID)
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestRemoveEditorRefusesAdmins(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	admin, err := env.team.EnsureAdmin(ctx, "admin", "pw")
	require.NoError(t, err)

	err = env.team.RemoveEditor(ctx, adminActor, admin.ID)
	requireCode(t, err, apperrors.CodeNotFound)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	first, err := env.team.EnsureAdmin(ctx, "admin", "pw")
	require.NoError(t, err)
	second, err := env.team.EnsureAdmin(ctx, "admin", "other")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.UserRoleAdmin, second.Role)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	editor, err := env.team.AddEditor(ctx, adminActor, "carol", "old")
	require.NoError(t, err)
	actor := &domain.Actor{Type: domain.SubjectTypeUser, ID: editor.ID, Role: editor.Role}

	err = env.team.ChangePassword(ctx, actor, "wrong", "new")
	domainErr := requireCode(t, err, apperrors.CodeValidation)
	assert.Contains(t, domainErr.Details, "current_password")

	require.NoError(t, env.team.ChangePassword(ctx, actor, "old", "new"))
	result, err := env.auth.Authenticate(ctx, "carol", "new")
	require.NoError(t, err)
	assert.Equal(t, LoginSystemUser, result.Kind)

	tech := env.register(t, validRegistration("Jean"))
	techActor := &domain.Actor{Type: domain.SubjectTypeTechnician, ID: tech.ID}
	require.NoError(t, env.team.ChangePassword(ctx, techActor, "pw", "fresh"))
	result, err = env.auth.Authenticate(ctx, "0990000000", "fresh")
	require.NoError(t, err)
	assert.Equal(t, LoginTechnician, result.Kind)
}
