// service/auth/auth_service_test.go
package authsvc

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"smartlibrary/model"
	adminrepo "smartlibrary/repository/admin"
	"smartlibrary/util/hash"
)

type mockRepo struct {
	byUsernameFn func(ctx context.Context, username string) (*model.Admin, error)
}

var _ adminrepo.Repo = (*mockRepo)(nil)

func (m *mockRepo) ByUsername(ctx context.Context, username string) (*model.Admin, error) {
	return m.byUsernameFn(ctx, username)
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()

	h, err := hash.HashPassword(plain)
	require.NoError(t, err)
	return h
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	pw := mustHash(t, "supersecret")
	m := &mockRepo{
		byUsernameFn: func(ctx context.Context, username string) (*model.Admin, error) {
			require.Equal(t, "admin", username)
			return &model.Admin{ID: 1, Username: "admin", Fullname: "Head Librarian", PasswordHash: pw}, nil
		},
	}
	svc := New(m, "test-secret")

	a, tok, err := svc.Login(ctx, model.LoginReq{Username: "admin", Password: "supersecret"})
	require.NoError(t, err)
	require.NotNil(t, a)
	require.NotEmpty(t, tok)
	require.Equal(t, "Head Librarian", a.Fullname)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	pw := mustHash(t, "supersecret")
	m := &mockRepo{
		byUsernameFn: func(ctx context.Context, username string) (*model.Admin, error) {
			return &model.Admin{ID: 1, Username: "admin", PasswordHash: pw}, nil
		},
	}
	svc := New(m, "test-secret")

	_, _, err := svc.Login(ctx, model.LoginReq{Username: "admin", Password: "nope"})
	require.Error(t, err)
	require.Equal(t, ErrInvalidCreds, Code(err))
}

func TestLogin_UnknownUser(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		byUsernameFn: func(ctx context.Context, username string) (*model.Admin, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(m, "test-secret")

	_, _, err := svc.Login(ctx, model.LoginReq{Username: "ghost", Password: "whatever"})
	require.Error(t, err)
	require.Equal(t, ErrInvalidCreds, Code(err))
}
