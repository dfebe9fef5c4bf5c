package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/alimikegami/e-commerce/storefront-service/config"
	"github.com/alimikegami/e-commerce/storefront-service/internal/domain"
	"github.com/alimikegami/e-commerce/storefront-service/internal/dto"
	"github.com/alimikegami/e-commerce/storefront-service/internal/repository"
	pkgdto "github.com/alimikegami/e-commerce/storefront-service/pkg/dto"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/errs"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/utils"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dummyHash is compared against when the email is unknown so that both login
// failure paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	hashed, _ := utils.HashPassword("storefront-unknown-account")
	return hashed
})

type UserServiceImpl struct {
	repo    repository.UserRepository
	config  config.Config
	emitter *EventEmitter
}

func CreateUserService(repo repository.UserRepository, config config.Config, emitter *EventEmitter) UserService {
	return &UserServiceImpl{repo: repo, config: config, emitter: emitter}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// storeError keeps NotFound and collapses everything else to an internal error.
func storeError(err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return errs.ErrNotFound
	}

	return errs.ErrInternalServer
}

func (s *UserServiceImpl) issueToken(user domain.User) (string, error) {
	return utils.CreateJWTToken(user.ID.Hex(), string(user.Role), s.config.JWTConfig.Secret, s.config.JWTConfig.ExpiresIn)
}

func (s *UserServiceImpl) Signup(ctx context.Context, req dto.SignupRequest) (resp dto.TokenResponse, err error) {
	email := normalizeEmail(req.Email)

	_, err = s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return resp, errs.ErrEmailAlreadyUsed
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return resp, errs.ErrInternalServer
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Signup").Msg("")
		return resp, errs.ErrInternalServer
	}

	// The id is assigned here so a failed write can only ever be undone for
	// this document.
	user := domain.User{
		ID:       primitive.NewObjectID(),
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hashed,
		Role:     domain.RoleCustomer,
	}

	if _, err = s.repo.AddUser(ctx, user); err != nil {
		if errors.Is(err, errs.ErrEmailAlreadyUsed) {
			return resp, errs.ErrEmailAlreadyUsed
		}
		s.compensate(ctx, "DeleteUserByID", func() error { return s.repo.DeleteUserByID(ctx, user.ID.Hex()) })
		return resp, errs.ErrInternalServer
	}

	token, err := s.issueToken(user)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Signup").Msg("")
		s.compensate(ctx, "DeleteUserByID", func() error { return s.repo.DeleteUserByID(ctx, user.ID.Hex()) })
		return resp, errs.ErrInternalServer
	}

	s.emitter.Emit(ctx, user.ID.Hex(), dto.EventUserRegistered, dto.UserEvent{
		UserID: user.ID.Hex(),
		Name:   user.Name,
		Email:  user.Email,
	})

	return dto.TokenResponse{Token: token}, nil
}

// compensate runs a best-effort cleanup. Its failure is logged only.
func (s *UserServiceImpl) compensate(ctx context.Context, action string, fn func() error) {
	if err := fn(); err != nil && !errors.Is(err, errs.ErrNotFound) {
		log.Ctx(ctx).Error().Err(err).Str("component", "Signup").Str("compensation", action).Msg("")
	}
}

func (s *UserServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (resp dto.TokenResponse, err error) {
	user, err := s.repo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			utils.ComparePassword(dummyHash(), req.Password)
			return resp, errs.ErrInvalidCredentials
		}
		return resp, errs.ErrInternalServer
	}

	if !utils.ComparePassword(user.Password, req.Password) {
		return resp, errs.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Login").Msg("")
		return resp, errs.ErrInternalServer
	}

	return dto.TokenResponse{Token: token}, nil
}

func (s *UserServiceImpl) GetSelf(ctx context.Context) (resp dto.UserResponse, err error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return
	}

	user, err := s.repo.GetUserByID(ctx, identity.UserID)
	if err != nil {
		return resp, storeError(err)
	}

	return toUserResponse(user), nil
}

func (s *UserServiceImpl) UpdateSelf(ctx context.Context, req dto.UpdateSelfRequest) (resp dto.UserResponse, err error) {
	identity, err := currentIdentity(ctx)
	if err != nil {
		return
	}

	user, err := s.repo.GetUserByID(ctx, identity.UserID)
	if err != nil {
		return resp, storeError(err)
	}

	if req.Name != "" {
		user.Name = strings.TrimSpace(req.Name)
	}

	if req.Password != "" {
		user.Password, err = utils.HashPassword(req.Password)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("component", "UpdateSelf").Msg("")
			return resp, errs.ErrInternalServer
		}
	}

	if err = s.changeEmail(ctx, &user, req.Email); err != nil {
		return
	}

	if err = s.save(ctx, user); err != nil {
		return
	}

	return s.reload(ctx, user.ID.Hex())
}

func (s *UserServiceImpl) GetUsers(ctx context.Context, filter pkgdto.Filter) (resp pkgdto.PaginationResponse, err error) {
	if _, err = requireAdmin(ctx); err != nil {
		return
	}

	filter = filter.Normalize()
	users, total, err := s.repo.GetUsers(ctx, filter)
	if err != nil {
		return resp, errs.ErrInternalServer
	}

	records := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		records = append(records, toUserResponse(u))
	}

	return pkgdto.NewPaginationResponse(filter, total, records), nil
}

func (s *UserServiceImpl) GetUserByID(ctx context.Context, id string) (resp dto.UserResponse, err error) {
	if _, err = requireAdmin(ctx); err != nil {
		return
	}

	return s.reload(ctx, id)
}

func (s *UserServiceImpl) UpdateUserByID(ctx context.Context, id string, req dto.UpdateUserRequest) (resp dto.UserResponse, err error) {
	if _, err = requireAdmin(ctx); err != nil {
		return
	}

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return resp, storeError(err)
	}

	if req.Name != "" {
		user.Name = strings.TrimSpace(req.Name)
	}

	if req.Role != "" {
		role, ok := domain.ParseRole(req.Role)
		if !ok {
			return resp, errs.ErrValidation
		}
		user.Role = role
	}

	if err = s.changeEmail(ctx, &user, req.Email); err != nil {
		return
	}

	if err = s.save(ctx, user); err != nil {
		return
	}

	return s.reload(ctx, id)
}

func (s *UserServiceImpl) DeleteUserByID(ctx context.Context, id string) (err error) {
	if _, err = requireAdmin(ctx); err != nil {
		return
	}

	if err = s.repo.DeleteUserByID(ctx, id); err != nil {
		return storeError(err)
	}

	return nil
}

// SeedAdmin creates the configured administrator unless the email is taken.
func (s *UserServiceImpl) SeedAdmin(ctx context.Context, name, email, password string) (err error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	_, err = s.repo.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return err
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = s.repo.AddUser(ctx, domain.User{
		Name:     name,
		Email:    email,
		Password: hashed,
		Role:     domain.RoleAdmin,
	})
	if errors.Is(err, errs.ErrEmailAlreadyUsed) {
		return nil
	}

	return err
}

func (s *UserServiceImpl) changeEmail(ctx context.Context, user *domain.User, email string) error {
	email = normalizeEmail(email)
	if email == "" || email == user.Email {
		return nil
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil && existing.ID != user.ID {
		return errs.ErrEmailAlreadyUsed
	}
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return errs.ErrInternalServer
	}

	user.Email = email
	return nil
}

func (s *UserServiceImpl) save(ctx context.Context, user domain.User) error {
	err := s.repo.UpdateUser(ctx, user)
	if err == nil {
		return nil
	}

	if errors.Is(err, errs.ErrEmailAlreadyUsed) {
		return errs.ErrEmailAlreadyUsed
	}

	return storeError(err)
}

func (s *UserServiceImpl) reload(ctx context.Context, id string) (dto.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return dto.UserResponse{}, storeError(err)
	}

	return toUserResponse(user), nil
}
