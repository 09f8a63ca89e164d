package services

import (
	"database/sql"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"thrifttech/internal/domain"
	"thrifttech/internal/repos"
)

var (
	ErrBadCreds      = errors.New("invalid email or password")
	ErrEmailTaken    = errors.New("an account with this email already exists")
	ErrWrongPassword = errors.New("current password is incorrect")
)

const bcryptCost = 12

type AuthService struct {
	Users *repos.UserRepo
}

func NewAuthService(users *repos.UserRepo) *AuthService {
	return &AuthService{Users: users}
}

// Login verifies credentials and binds the session. Lookup failure and hash
// mismatch report the same error.
func (s *AuthService) Login(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBadCreds
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// Register creates a customer account and signs it in.
func (s *AuthService) Register(sid, fullName, username, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	taken, err := s.Users.EmailTaken(email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	id, err := s.Users.Create(strings.TrimSpace(fullName), strings.TrimSpace(username), email, string(hash))
	if err != nil {
		return nil, err
	}
	if err := s.Users.BindSession(sid, id); err != nil {
		return nil, err
	}
	return s.Users.ByID(id)
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

// CurrentUser resolves the session cookie to a signed-in user, nil when the
// session is anonymous or unknown.
func (s *AuthService) CurrentUser(sid string) *domain.User {
	if sid == "" {
		return nil
	}
	u, err := s.Users.SessionUser(sid)
	if err != nil {
		return nil
	}
	return u
}

// UpdateProfile changes name, username and email; the email must stay unique
// across other accounts.
func (s *AuthService) UpdateProfile(userID int64, fullName, username, email string) error {
	email = strings.TrimSpace(email)
	taken, err := s.Users.EmailTaken(email, userID)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	return s.Users.UpdateProfile(userID, strings.TrimSpace(fullName), strings.TrimSpace(username), email)
}

// ChangePassword re-verifies the current password before rehashing.
func (s *AuthService) ChangePassword(userID int64, current, next string) error {
	u, err := s.Users.ByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(current)) != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcryptCost)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(userID, string(hash))
}
