package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/soaringjerry/Rally/internal/api"
	"github.com/soaringjerry/Rally/internal/services"
)

type SQLiteStore struct {
	db  *sql.DB
	log logrus.FieldLogger
}

// DSN builds the connection string for a database file. Foreign keys are
// enabled through the DSN so every pooled connection enforces them.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000&_foreign_keys=on", path)
}

func NewSQLiteStore(db *sql.DB, log logrus.FieldLogger) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db, log: log.WithField("component", "sqlite_store")}, nil
}

func NewStore(db *sql.DB, log logrus.FieldLogger) (api.Store, error) {
	return NewSQLiteStore(db, log)
}

// DB exposes the handle for pool statistics.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

func (s *SQLiteStore) logErr(op string, err error) error {
	if err != nil {
		s.log.WithError(err).WithField("op", op).Error("sqlite store query failed")
	}
	return err
}

// constraintErr maps SQLite constraint failures onto service errors.
func constraintErr(err error, conflict, missing string) error {
	var se sqlite3.Error
	if !errors.As(err, &se) || se.Code != sqlite3.ErrConstraint {
		return nil
	}
	switch se.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return services.NewConflictError(conflict)
	case sqlite3.ErrConstraintForeignKey:
		return services.NewNotFoundError(missing)
	case sqlite3.ErrConstraintCheck:
		return services.NewInvalidError("value out of range")
	}
	return nil
}

func (s *SQLiteStore) AddUser(ctx context.Context, u *api.User) error {
	if u == nil {
		return services.NewInvalidError("user required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, pass_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, strings.ToLower(u.Email), u.PassHash, u.CreatedAt.UTC())
	if cerr := constraintErr(err, "email exists", "user not found"); cerr != nil {
		return cerr
	}
	return s.logErr("AddUser", err)
}

func (s *SQLiteStore) findUser(ctx context.Context, op, where string, arg any) (*api.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, email, pass_hash, created_at FROM users WHERE `+where, arg)
	var u api.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PassHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, s.logErr(op, err)
	}
	return &u, nil
}

func (s *SQLiteStore) FindUserByEmail(ctx context.Context, email string) (*api.User, error) {
	return s.findUser(ctx, "FindUserByEmail", "email = ?", strings.ToLower(email))
}

func (s *SQLiteStore) FindUserByID(ctx context.Context, id string) (*api.User, error) {
	return s.findUser(ctx, "FindUserByID", "id = ?", id)
}

func (s *SQLiteStore) AddSport(ctx context.Context, sp *api.Sport) error {
	if sp == nil || strings.TrimSpace(sp.Name) == "" {
		return services.NewInvalidError("sport name required")
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO sports (id, name) VALUES (?, ?)`, sp.ID, sp.Name)
	if cerr := constraintErr(err, "sport exists", "sport not found"); cerr != nil {
		return cerr
	}
	return s.logErr("AddSport", err)
}

func (s *SQLiteStore) GetSport(ctx context.Context, id string) (*api.Sport, error) {
	var sp api.Sport
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM sports WHERE id = ?`, id).Scan(&sp.ID, &sp.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.logErr("GetSport", err)
	}
	return &sp, nil
}

func (s *SQLiteStore) ListSports(ctx context.Context) ([]*api.Sport, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM sports ORDER BY name`)
	if err != nil {
		return nil, s.logErr("ListSports", err)
	}
	defer rows.Close()
	out := []*api.Sport{}
	for rows.Next() {
		var sp api.Sport
		if err := rows.Scan(&sp.ID, &sp.Name); err != nil {
			return nil, s.logErr("ListSports", err)
		}
		out = append(out, &sp)
	}
	return out, s.logErr("ListSports", rows.Err())
}

func (s *SQLiteStore) AddUserSport(ctx context.Context, userID, sportID string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO user_sports (user_id, sport_id) VALUES (?, ?)`, userID, sportID)
	if cerr := constraintErr(err, "sport already added", "user or sport not found"); cerr != nil {
		return cerr
	}
	return s.logErr("AddUserSport", err)
}

// RemoveUserSport also drops the pair's points through the cascade.
func (s *SQLiteStore) RemoveUserSport(ctx context.Context, userID, sportID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_sports WHERE user_id = ? AND sport_id = ?`, userID, sportID)
	return s.logErr("RemoveUserSport", err)
}

// ReplaceUserSports keeps rows (and points) of sports that stay and appends
// new ones in the given order, in one transaction.
func (s *SQLiteStore) ReplaceUserSports(ctx context.Context, userID string, sportIDs []string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return s.logErr("ReplaceUserSports", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	del := `DELETE FROM user_sports WHERE user_id = ?`
	args := []any{userID}
	if len(sportIDs) > 0 {
		del += ` AND sport_id NOT IN (?` + strings.Repeat(`, ?`, len(sportIDs)-1) + `)`
		for _, id := range sportIDs {
			args = append(args, id)
		}
	}
	if _, err = tx.ExecContext(ctx, del, args...); err != nil {
		return s.logErr("ReplaceUserSports", err)
	}
	for _, id := range sportIDs {
		_, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO user_sports (user_id, sport_id) VALUES (?, ?)`, userID, id)
		if err != nil {
			if cerr := constraintErr(err, "sport already added", "user or sport not found"); cerr != nil {
				return cerr
			}
			return s.logErr("ReplaceUserSports", err)
		}
	}
	return s.logErr("ReplaceUserSports", tx.Commit())
}

func (s *SQLiteStore) ListUserSports(ctx context.Context, userID string) ([]*api.UserSport, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT s.id, s.name, p.init_points, p.actual_points, p.updated_at
FROM user_sports us
JOIN sports s ON s.id = us.sport_id
LEFT JOIN user_points p ON p.user_id = us.user_id AND p.sport_id = us.sport_id
WHERE us.user_id = ?
ORDER BY us.rowid`, userID)
	if err != nil {
		return nil, s.logErr("ListUserSports", err)
	}
	defer rows.Close()
	out := []*api.UserSport{}
	for rows.Next() {
		var (
			us      api.UserSport
			initPts sql.NullInt64
			actual  sql.NullInt64
			updated sql.NullTime
		)
		if err := rows.Scan(&us.Sport.ID, &us.Sport.Name, &initPts, &actual, &updated); err != nil {
			return nil, s.logErr("ListUserSports", err)
		}
		if initPts.Valid {
			us.Points = &api.UserPoints{
				InitPoints:   int(initPts.Int64),
				ActualPoints: int(actual.Int64),
				UpdatedAt:    updated.Time,
			}
		}
		out = append(out, &us)
	}
	return out, s.logErr("ListUserSports", rows.Err())
}

// UpsertInitialPoints writes init and actual points in one statement; the
// foreign key on user_sports rejects sports outside the user's profile.
func (s *SQLiteStore) UpsertInitialPoints(ctx context.Context, userID, sportID string, points int, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO user_points (user_id, sport_id, init_points, actual_points, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (user_id, sport_id) DO UPDATE SET
    init_points = excluded.init_points,
    actual_points = excluded.actual_points,
    updated_at = excluded.updated_at`,
		userID, sportID, points, points, at.UTC())
	if cerr := constraintErr(err, "points exist", "sport not in user profile"); cerr != nil {
		return cerr
	}
	return s.logErr("UpsertInitialPoints", err)
}

var _ api.Store = (*SQLiteStore)(nil)
