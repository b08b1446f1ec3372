package auth

import (
	"context"
	"strings"

	"github.com/cj-tomlin/skate-project/internal/apperr"
	"github.com/cj-tomlin/skate-project/internal/db"
	"github.com/cj-tomlin/skate-project/internal/shared/validate"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultUserPageSize = 20
	maxUserPageSize     = 100
)

// ListUsers pages through live accounts in creation order.
func (s *Service) ListUsers(ctx context.Context, actor Actor, page, pageSize int) (UserPage, error) {
	if err := RequireRole(actor, RoleModerator, RoleAdmin); err != nil {
		return UserPage{}, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultUserPageSize
	}
	if pageSize > maxUserPageSize {
		pageSize = maxUserPageSize
	}

	var total int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`).Scan(&total); err != nil {
		return UserPage{}, db.Translate(err, "user")
	}
	out := UserPage{
		Items:    []User{},
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    (total + pageSize - 1) / pageSize,
	}

	offset, ok := db.PageOffset(page, pageSize, total)
	if !ok {
		return out, nil
	}
	rows, err := s.db.Query(ctx, `SELECT `+userFields+` FROM users WHERE deleted_at IS NULL
		ORDER BY created_at, id LIMIT $1 OFFSET $2`, pageSize, offset)
	if err != nil {
		return UserPage{}, db.Translate(err, "user")
	}
	defer rows.Close()
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return UserPage{}, db.Translate(err, "user")
		}
		out.Items = append(out.Items, u)
	}
	if err := rows.Err(); err != nil {
		return UserPage{}, db.Translate(err, "user")
	}
	return out, nil
}

// GetUser returns any account, soft-deleted ones included. Users may read
// their own record; anyone else needs moderator or admin.
func (s *Service) GetUser(ctx context.Context, actor Actor, id string) (User, error) {
	if err := RequireOwnerOrRole(actor, id, RoleModerator, RoleAdmin); err != nil {
		return User{}, err
	}
	return s.userBy(ctx, `id = $1`, id)
}

// UpdateUser applies a profile patch. Users may edit themselves; moderators
// and admins may edit anyone. Role and status have their own operations.
func (s *Service) UpdateUser(ctx context.Context, actor Actor, id string, patch UserPatch) (User, error) {
	if err := RequireOwnerOrRole(actor, id, RoleModerator, RoleAdmin); err != nil {
		return User{}, err
	}
	if err := validate.Struct(patch); err != nil {
		return User{}, err
	}

	user, err := s.UserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if patch.Username != nil {
		user.Username = strings.TrimSpace(*patch.Username)
	}
	if patch.Email != nil {
		user.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*patch.AvatarURL)
	}
	if len(user.Username) < 3 {
		return User{}, apperr.Validation("username must be at least 3 characters")
	}
	if user.Email == "" {
		return User{}, apperr.Validation("email is required")
	}

	row := s.db.QueryRow(ctx, `
		UPDATE users SET username=$2, email=$3, bio=$4, avatar_url=$5, updated_at=now()
		WHERE id=$1 AND deleted_at IS NULL
		RETURNING updated_at
	`, user.ID, user.Username, user.Email, user.Bio, user.AvatarURL)
	if err := row.Scan(&user.UpdatedAt); err != nil {
		return User{}, db.Translate(err, "user")
	}
	return user, nil
}

// ChangePassword replaces the actor's password and revokes their refresh tokens.
func (s *Service) ChangePassword(ctx context.Context, actor Actor, req PasswordChangeRequest) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if err := validate.Struct(req); err != nil {
		return err
	}
	user, err := s.UserByID(ctx, actor.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return apperr.Unauthenticated("incorrect password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `UPDATE users SET password_hash=$2, updated_at=now() WHERE id=$1`, user.ID, string(hash)); err != nil {
			return db.Translate(err, "user")
		}
		return revokeRefreshTokens(ctx, tx, user.ID)
	})
}

// DeleteUser soft-deletes an account. Deleting an already deleted account succeeds.
func (s *Service) DeleteUser(ctx context.Context, actor Actor, id string) error {
	if err := s.requireAdminOnOther(actor, id); err != nil {
		return err
	}
	return s.updateStatus(ctx, id, true,
		`UPDATE users SET deleted_at = COALESCE(deleted_at, now()), updated_at = now() WHERE id = $1`)
}

func (s *Service) RestoreUser(ctx context.Context, actor Actor, id string) error {
	if err := RequireRole(actor, RoleAdmin); err != nil {
		return err
	}
	return s.updateStatus(ctx, id, false,
		`UPDATE users SET deleted_at = NULL, updated_at = now() WHERE id = $1`)
}

// SetActive activates or deactivates an account. Deactivation revokes its
// refresh tokens; Authenticate rejects its access tokens.
func (s *Service) SetActive(ctx context.Context, actor Actor, id string, active bool) error {
	if active {
		if err := RequireRole(actor, RoleAdmin); err != nil {
			return err
		}
	} else if err := s.requireAdminOnOther(actor, id); err != nil {
		return err
	}
	return s.updateStatus(ctx, id, !active,
		`UPDATE users SET is_active = $2, updated_at = now() WHERE id = $1`, active)
}

func (s *Service) requireAdminOnOther(actor Actor, id string) error {
	if err := RequireRole(actor, RoleAdmin); err != nil {
		return err
	}
	if actor.UserID == id {
		return apperr.Validation("admins cannot disable their own account")
	}
	return nil
}

func (s *Service) updateStatus(ctx context.Context, id string, revoke bool, sql string, extra ...any) error {
	args := append([]any{id}, extra...)
	return db.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return db.Translate(err, "user")
		}
		if tag.RowsAffected() == 0 {
			return apperr.NotFound("user %s not found", id)
		}
		if revoke {
			return revokeRefreshTokens(ctx, tx, id)
		}
		return nil
	})
}
