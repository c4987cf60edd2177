package user

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	c "ovidot/internal/core/domain/common"
	e "ovidot/internal/core/domain/errors"
	"ovidot/internal/core/domain/user"
	"ovidot/internal/db"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const PG_UNIQUE_CONSTRAINT_ERR_CODE = "23505"
const PASSWORD_RESET_TOKEN_CONSTRAINT_NAME = "user_password_reset_token_idx"

const userColumns = `id, email, password_hash, password_reset_token, password_reset_expires_at, notifications`

type PgxUserRepository struct {
	db db.DBTX
}

func NewPgxRepository(dbtx db.DBTX) *PgxUserRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUserRepository{db: dbtx}
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	dbID, ok := decodeID(id)
	if !ok {
		return u, user.ErrUserDoesNotExist
	}
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE id = $1`, dbID)
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	return u, err
}

func (r *PgxUserRepository) GetByEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE email = $1`, string(email))
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	return u, err
}

func (r *PgxUserRepository) SetPasswordResetToken(ctx context.Context, input user.SetPasswordResetTokenInput) error {
	dbID, ok := decodeID(input.ID)
	if !ok {
		return user.ErrUserDoesNotExist
	}
	tag, err := r.db.Exec(
		ctx,
		`UPDATE "user"
		SET password_reset_token = $2, password_reset_expires_at = $3
		WHERE id = $1`,
		dbID,
		string(input.Token),
		input.ExpiresAt,
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgErr.Code == PG_UNIQUE_CONSTRAINT_ERR_CODE &&
		pgErr.ConstraintName == PASSWORD_RESET_TOKEN_CONSTRAINT_NAME {
		return user.ErrPasswordResetTokenCollision
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) GetByPasswordResetToken(
	ctx context.Context,
	token user.PasswordResetToken,
	now time.Time,
) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user"
		WHERE password_reset_token = $1 AND password_reset_expires_at > $2`,
		string(token),
		now,
	)
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrInvalidPasswordResetToken
	}
	return u, err
}

func (r *PgxUserRepository) ResetPassword(ctx context.Context, input user.ResetPasswordInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`UPDATE "user"
		SET password_hash = $2, password_reset_token = NULL, password_reset_expires_at = NULL
		WHERE password_reset_token = $1 AND password_reset_expires_at > $3
		RETURNING `+userColumns,
		string(input.Token),
		string(input.PasswordHash),
		input.At,
	)
	u, err = scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrInvalidPasswordResetToken
	}
	return u, err
}

func (r *PgxUserRepository) ChangePassword(ctx context.Context, input user.ChangePasswordInput) error {
	dbID, ok := decodeID(input.ID)
	if !ok {
		return user.ErrUserDoesNotExist
	}
	notifications, err := encodeNotifications(input.Notifications)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(
		ctx,
		`UPDATE "user"
		SET password_hash = $3, notifications = $4
		WHERE id = $1 AND password_hash = $2`,
		dbID,
		string(input.CurrentPasswordHash),
		string(input.NewPasswordHash),
		notifications,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM "user" WHERE id = $1)`, dbID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return user.ErrUserDoesNotExist
	}
	return user.ErrCurrentPasswordIncorrect
}

type dbNotification struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func encodeNotifications(list []user.Notification) (pgtype.JSONB, error) {
	dbList := make([]dbNotification, 0, len(list))
	for _, n := range list {
		dbList = append(dbList, dbNotification{
			Type:      string(n.Type),
			Message:   n.Message,
			CreatedAt: n.CreatedAt.UTC(),
		})
	}
	data, err := json.Marshal(dbList)
	if err != nil {
		return pgtype.JSONB{}, err
	}
	return pgtype.JSONB{Bytes: data, Status: pgtype.Present}, nil
}

func decodeNotifications(value pgtype.JSONB) ([]user.Notification, error) {
	if value.Status != pgtype.Present {
		return nil, nil
	}
	var dbList []dbNotification
	if err := json.Unmarshal(value.Bytes, &dbList); err != nil {
		return nil, err
	}
	list := make([]user.Notification, 0, len(dbList))
	for _, n := range dbList {
		list = append(list, user.Notification{
			Type:      user.NotificationType(n.Type),
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		})
	}
	return list, nil
}

func decodeID(id user.ID) (int64, bool) {
	dbID, err := strconv.ParseInt(string(id), 10, 64)
	return dbID, err == nil
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id            int64
		email         string
		passwordHash  string
		resetToken    pgtype.Text
		resetExpires  pgtype.Timestamptz
		notifications pgtype.JSONB
	)
	err = row.Scan(&id, &email, &passwordHash, &resetToken, &resetExpires, &notifications)
	if err != nil {
		return u, err
	}

	u = user.User{
		ID:           user.ID(strconv.FormatInt(id, 10)),
		Email:        c.Email(email),
		PasswordHash: user.PasswordHash(passwordHash),
		PasswordResetToken: c.NewOptional(
			user.PasswordResetToken(resetToken.String),
			resetToken.Status == pgtype.Present,
		),
		PasswordResetExpiresAt: c.NewOptional(
			resetExpires.Time.UTC(),
			resetExpires.Status == pgtype.Present,
		),
	}
	u.Notifications, err = decodeNotifications(notifications)
	if err != nil {
		return u, err
	}
	if err := u.Validate(); err != nil {
		return u, err
	}
	return u, nil
}
