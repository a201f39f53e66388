package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/Skotchmaster/storefront/internal/hash"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/tokens"
)

const minPasswordLen = 8

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	AccessTTL time.Duration
}

type LoginResult struct {
	AccessToken string
	AccessExp   time.Time
	Role        string
	SubjectID   uint
}

type SignupRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type Me struct {
	Role     string
	Customer *models.Customer
	Staff    *models.Staff
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", fmt.Errorf("%w: invalid email", ErrValidation)
	}
	return strings.ToLower(addr.Address), nil
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*models.Customer, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, fmt.Errorf("%w: first_name and last_name required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("signup_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrTransaction, err)
	}

	c := &models.Customer{
		Email:        email,
		PasswordHash: pwHash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
	}
	if err := s.Repo.CreateCustomer(ctx, c); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, fromRepo(err)
	}
	return c, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email, err := normalizeEmail(email)
	if err != nil || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	c, err := s.Repo.CustomerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, fromRepo(err)
	}
	if !hash.CheckPassword(c.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	return s.issue(tokens.RoleCustomer, c.ID)
}

func (s *AuthService) StaffLogin(ctx context.Context, email, password string) (*LoginResult, error) {
	email, err := normalizeEmail(email)
	if err != nil || password == "" {
		return nil, fmt.Errorf("%w: email and password required", ErrValidation)
	}

	st, err := s.Repo.StaffByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
		}
		return nil, fromRepo(err)
	}
	if !hash.CheckPassword(st.PasswordHash, password) {
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	return s.issue(tokens.RoleStaff, st.ID)
}

func (s *AuthService) issue(role string, id uint) (*LoginResult, error) {
	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	exp := time.Now().Add(ttl)

	tok, err := tokens.NewAccessToken(s.JWTSecret, role, strconv.FormatUint(uint64(id), 10), exp)
	if err != nil {
		return nil, fmt.Errorf("%w: sign token: %w", ErrTransaction, err)
	}
	return &LoginResult{AccessToken: tok, AccessExp: exp, Role: role, SubjectID: id}, nil
}

// Me resolves the session identity to its stored record.
func (s *AuthService) Me(ctx context.Context) (*Me, error) {
	customerID, staff, err := viewer(ctx)
	if err != nil {
		return nil, err
	}

	if staff {
		id, _ := session.StaffFrom(ctx)
		st, err := s.Repo.GetStaff(ctx, id)
		if err != nil {
			return nil, fromRepo(err)
		}
		return &Me{Role: tokens.RoleStaff, Staff: st}, nil
	}

	c, err := s.Repo.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, fromRepo(err)
	}
	return &Me{Role: tokens.RoleCustomer, Customer: c}, nil
}

// EnsureStaff creates the staff account unless the email is already taken.
func (s *AuthService) EnsureStaff(ctx context.Context, email, password, name string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if _, err := s.Repo.StaffByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repo.ErrNotFound) {
		return fromRepo(err)
	}

	if len(password) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransaction, err)
	}
	if name == "" {
		name = email
	}
	return fromRepo(s.Repo.CreateStaff(ctx, &models.Staff{Email: email, PasswordHash: pwHash, Name: name}))
}
