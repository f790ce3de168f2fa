package staff

import (
	"context"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/angelmondragon/storefront-admin/pkg/auth"
	"github.com/angelmondragon/storefront-admin/pkg/config"
	"github.com/angelmondragon/storefront-admin/pkg/db"
	"github.com/angelmondragon/storefront-admin/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-admin/pkg/errors"
	"github.com/angelmondragon/storefront-admin/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service authenticates back-office staff.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Active(ctx context.Context, id uint) (*StaffDTO, error)
	EnsureSuperuser(ctx context.Context, input SuperuserInput) (*StaffDTO, bool, error)
}

type staffRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Staff, error)
	FindByID(ctx context.Context, id uint) (*models.Staff, error)
	Save(ctx context.Context, member *models.Staff) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
}

type service struct {
	repo        staffRepository
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	now         func() time.Time
}

// ServiceParams bundles the dependencies required to build a staff service.
type ServiceParams struct {
	Repo           staffRepository
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
}

// NewService constructs a staff service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("staff repository is required")
	}
	return &service{
		repo:        params.Repo,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	member, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.recordLogin(ctx, member, req.Password, now); err != nil {
		return nil, err
	}

	token, expiresAt, err := pkgAuth.MintAccessToken(s.jwtCfg, now, pkgAuth.AccessTokenPayload{
		StaffID:     member.ID,
		Email:       member.Email,
		IsSuperuser: member.IsSuperuser,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Staff:       fromModel(member),
	}, nil
}

// recordLogin stamps last_login_at. When the stored hash was made with other
// argon2 costs it is replaced in the same write.
func (s *service) recordLogin(ctx context.Context, member *models.Staff, password string, now time.Time) error {
	if !security.NeedsRehash(member.PasswordHash, s.passwordCfg) {
		if err := s.repo.UpdateLastLogin(ctx, member.ID, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
		}
		member.LastLoginAt = &now
		return nil
	}

	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rehash password")
	}
	member.PasswordHash = hash
	member.LastLoginAt = &now
	if err := s.repo.Save(ctx, member); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save rehashed password")
	}
	return nil
}

// Active reloads a token holder and rejects deactivated or removed staff.
func (s *service) Active(ctx context.Context, id uint) (*StaffDTO, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "staff member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup staff")
	}
	if !member.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "staff member is inactive")
	}
	dto := fromModel(member)
	return &dto, nil
}

// EnsureSuperuser creates the superuser or resets its password. The bool
// reports whether a new row was created.
func (s *service) EnsureSuperuser(ctx context.Context, input SuperuserInput) (*StaffDTO, bool, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(input.Password) == "" {
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	created := false
	member, err := s.repo.FindByEmail(ctx, email)
	switch {
	case db.IsNotFound(err):
		member = &models.Staff{Email: email}
		created = true
	case err != nil:
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup staff")
	}
	member.PasswordHash = hash
	member.IsActive = true
	member.IsSuperuser = true

	if err := s.repo.Save(ctx, member); err != nil {
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save superuser")
	}
	dto := fromModel(member)
	return &dto, created, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.Staff, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	member, err := s.repo.FindByEmail(ctx, strings.ToLower(input))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup staff")
	}

	valid, err := security.VerifyPassword(password, member.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid || !member.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	return member, nil
}

func fromModel(m *models.Staff) StaffDTO {
	return StaffDTO{
		ID:          m.ID,
		Email:       m.Email,
		IsSuperuser: m.IsSuperuser,
		LastLoginAt: m.LastLoginAt,
	}
}
