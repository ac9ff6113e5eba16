// Package auth is the identity side of the system: account records in the
// key/value store, bcrypt password checks, JWT access tokens, and the
// rider directory that the lifecycle engine and summaries read.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lucsky/cuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/domain"
	"github.com/freshbasketshahbaz-jpg/deliverysystem/internal/kvstore"
)

const (
	userKeyPrefix    = "user_"
	setupCompleteKey = "setup_complete"

	// Riders sign in with a username; the stored email is synthetic.
	riderEmailDomain = "@delivery.local"

	minPasswordLen = 6
)

type Service struct {
	kv       kvstore.Store
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewService(kv kvstore.Store, secret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Service{kv: kv, secret: []byte(secret), tokenTTL: tokenTTL, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func userKey(id string) string { return userKeyPrefix + id }

// SignIn checks credentials and returns an access token plus the account.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, domain.User, error) {
	u, err := s.findByEmail(ctx, email)
	if err != nil {
		return "", domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", domain.User{}, domain.ErrUnauthorized
	}
	token, err := s.issueToken(u)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("sign token: %w", err)
	}
	u.PasswordHash = ""
	return token, u, nil
}

// SignUp provisions a new account. Riders are addressed by username and
// start out available; everyone else signs up with an email.
func (s *Service) SignUp(ctx context.Context, req domain.SignUpRequest) (domain.User, error) {
	if len(req.Password) < minPasswordLen {
		return domain.User{}, fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	if req.Name == "" {
		return domain.User{}, errors.New("name is required")
	}
	if req.Role == "" {
		return domain.User{}, errors.New("role is required")
	}

	email := req.Email
	if req.Role == domain.RoleRider && req.Username != "" {
		email = req.Username + riderEmailDomain
	}
	if email == "" {
		return domain.User{}, errors.New("email or username is required")
	}
	if _, err := s.findByEmail(ctx, email); err == nil {
		return domain.User{}, fmt.Errorf("account %s already exists", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := domain.User{
		ID:           cuid.New(),
		Email:        email,
		Username:     req.Username,
		Name:         req.Name,
		Role:         req.Role,
		PasswordHash: string(hash),
	}
	if u.Role == domain.RoleRider {
		u.Status = domain.RiderAvailable
	}
	if err := s.saveUser(ctx, u); err != nil {
		return domain.User{}, err
	}
	u.PasswordHash = ""
	return u, nil
}

// CreateRider is the admin path for provisioning rider accounts.
func (s *Service) CreateRider(ctx context.Context, req domain.CreateRiderRequest) (domain.Rider, error) {
	u, err := s.SignUp(ctx, domain.SignUpRequest{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Role:     domain.RoleRider,
	})
	if err != nil {
		return domain.Rider{}, err
	}
	return domain.Rider{ID: u.ID, Username: u.Username, Name: u.Name, Status: u.Status}, nil
}

// SetupStatus reports whether initial provisioning ran.
func (s *Service) SetupStatus(ctx context.Context) (bool, error) {
	v, ok, err := s.kv.Get(ctx, setupCompleteKey)
	if err != nil {
		return false, err
	}
	return ok && v == "true", nil
}

// CompleteSetup provisions the first admin plus any riders and
// dispatchers, then marks setup done. Individual rider/dispatcher
// failures are skipped, matching first-run behaviour where a bad row in
// the form should not abort the whole setup.
func (s *Service) CompleteSetup(ctx context.Context, req domain.SetupRequest) (string, error) {
	admin, err := s.SignUp(ctx, domain.SignUpRequest{
		Email:    req.Admin.Email,
		Password: req.Admin.Password,
		Name:     req.Admin.Name,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create admin: %w", err)
	}
	for _, r := range req.Riders {
		_, _ = s.SignUp(ctx, domain.SignUpRequest{
			Username: r.Username, Password: r.Password, Name: r.Name, Role: domain.RoleRider,
		})
	}
	for _, d := range req.Dispatchers {
		_, _ = s.SignUp(ctx, domain.SignUpRequest{
			Email: d.Email, Password: d.Password, Name: d.Name, Role: domain.RoleDispatcher,
		})
	}
	if err := s.kv.Set(ctx, setupCompleteKey, "true"); err != nil {
		return "", err
	}
	return admin.ID, nil
}

// ChangePassword rewrites the stored hash for a user.
func (s *Service) ChangePassword(ctx context.Context, userID, password string) error {
	if len(password) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return s.saveUser(ctx, u)
}

// ListRiders returns every rider account, username-sorted.
func (s *Service) ListRiders(ctx context.Context) ([]domain.Rider, error) {
	users, err := s.kv.GetByPrefix(ctx, userKeyPrefix)
	if err != nil {
		return nil, err
	}
	var riders []domain.Rider
	for _, raw := range users {
		var u domain.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			continue
		}
		if u.Role != domain.RoleRider {
			continue
		}
		status := u.Status
		if status == "" {
			status = domain.RiderAvailable
		}
		riders = append(riders, domain.Rider{ID: u.ID, Username: u.Username, Name: u.Name, Status: status})
	}
	sort.Slice(riders, func(i, j int) bool { return riders[i].Username < riders[j].Username })
	return riders, nil
}

// SetRiderStatus overwrites a rider's availability flag. The lifecycle
// engine is the normal caller; admins can override through the API.
func (s *Service) SetRiderStatus(ctx context.Context, riderID, status string) error {
	u, err := s.getUser(ctx, riderID)
	if err != nil {
		return err
	}
	u.Status = status
	return s.saveUser(ctx, u)
}

func (s *Service) getUser(ctx context.Context, id string) (domain.User, error) {
	raw, ok, err := s.kv.Get(ctx, userKey(id))
	if err != nil {
		return domain.User{}, err
	}
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return domain.User{}, fmt.Errorf("decode user %s: %w", id, err)
	}
	return u, nil
}

func (s *Service) saveUser(ctx context.Context, u domain.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user %s: %w", u.ID, err)
	}
	return s.kv.Set(ctx, userKey(u.ID), string(b))
}

func (s *Service) findByEmail(ctx context.Context, email string) (domain.User, error) {
	if email == "" {
		return domain.User{}, domain.ErrUnauthorized
	}
	users, err := s.kv.GetByPrefix(ctx, userKeyPrefix)
	if err != nil {
		return domain.User{}, err
	}
	for _, raw := range users {
		var u domain.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			continue
		}
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUnauthorized
}
