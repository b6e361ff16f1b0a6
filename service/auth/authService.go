package authsvc

import (
	"context"
	"errors"

	"smartlibrary/model"
	adminrepo "smartlibrary/repository/admin"
	"smartlibrary/util/hash"
	jwtutil "smartlibrary/util/jwt"
)

type ErrCode string

const (
	ErrInvalidCreds ErrCode = "INVALID_CREDENTIALS"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Service interface {
	Login(ctx context.Context, req model.LoginReq) (*model.Admin, string, error)
}

type service struct {
	ar     adminrepo.Repo
	secret string
}

func New(ar adminrepo.Repo, secret string) Service { return &service{ar: ar, secret: secret} }

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.Admin, string, error) {
	a, err := s.ar.ByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", codedError{code: ErrInvalidCreds}
	}
	if !hash.Check(a.PasswordHash, req.Password) {
		return nil, "", codedError{code: ErrInvalidCreds}
	}
	token, err := jwtutil.Issue(s.secret, a.ID, "admin", 24)
	if err != nil {
		return nil, "", err
	}
	return a, token, nil
}
