package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmavida/farmavida-api/internal/application/auth"
	"github.com/farmavida/farmavida-api/internal/application/dto"
	"github.com/farmavida/farmavida-api/internal/domain"
	"github.com/farmavida/farmavida-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake de UserRepository
// ──────────────────────────────────────────────────────────────────────────────

type fakeUserRepo struct {
	users   map[string]*entity.User // por email
	findErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*entity.User{}}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	cp := *u
	r.users[u.Email] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func newAuthUseCase(repo *fakeUserRepo) *auth.AuthUseCase {
	return auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     "secret-de-test",
		ExpMinutes: 60,
		Issuer:     "farmavida-test",
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Register
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterUser_HasheaYPersiste(t *testing.T) {
	repo := newFakeUserRepo()
	uc := newAuthUseCase(repo)

	out, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email:    "ana@farmavida.co",
		Password: "contrasena-larga",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@farmavida.co", out.Email)
	assert.Equal(t, entity.RoleVendedor, out.Role, "rol por defecto")

	stored := repo.users["ana@farmavida.co"]
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(stored.PasswordHash), []byte("contrasena-larga")),
		"el password se guarda hasheado con bcrypt")
	assert.Equal(t, "active", stored.Status)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["ana@farmavida.co"] = &entity.User{ID: "u-1", Email: "ana@farmavida.co"}
	uc := newAuthUseCase(repo)

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email:    "ana@farmavida.co",
		Password: "contrasena-larga",
	})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// Un fallo al consultar el email no debe interpretarse como "email libre".
func TestRegisterUser_FalloDeConsulta_NoCreaUsuario(t *testing.T) {
	repo := newFakeUserRepo()
	repo.findErr = errors.New("find user by email: conexión perdida")
	uc := newAuthUseCase(repo)

	_, err := uc.RegisterUser(context.Background(), dto.RegisterRequest{
		Email:    "ana@farmavida.co",
		Password: "contrasena-larga",
	})
	assert.ErrorIs(t, err, repo.findErr)
	assert.Empty(t, repo.users, "ningún usuario debe quedar creado")
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func seedUser(t *testing.T, repo *fakeUserRepo, email, password, status string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	repo.users[email] = &entity.User{
		ID:           "u-1",
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleFarmaceuta,
		Status:       status,
	}
}

func TestLogin_Correcto(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "ana@farmavida.co", "contrasena-larga", "active")
	uc := newAuthUseCase(repo)

	out, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "ana@farmavida.co",
		Password: "contrasena-larga",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, "ana@farmavida.co", out.User.Email)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "ana@farmavida.co", "contrasena-larga", "active")
	uc := newAuthUseCase(repo)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "ana@farmavida.co",
		Password: "otra-cosa",
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	repo := newFakeUserRepo()
	seedUser(t, repo, "ana@farmavida.co", "contrasena-larga", "disabled")
	uc := newAuthUseCase(repo)

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email:    "ana@farmavida.co",
		Password: "contrasena-larga",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
