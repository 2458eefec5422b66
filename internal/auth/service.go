// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/mediacat/internal/core"
	"github.com/carterperez-dev/mediacat/internal/mail"
)

// UserAccount is the narrow view of a user this package needs; the user
// package implements UserStore against it.
type UserAccount struct {
	ID               string
	Username         string
	Email            string
	Role             string
	ConfirmationCode string
}

type UserStore interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUnconfirmed(
		ctx context.Context,
		username, email, code string,
	) (*UserAccount, error)
	AccountByUsername(
		ctx context.Context,
		username string,
	) (*UserAccount, error)
	RotateConfirmationCode(ctx context.Context, id, code string) error
}

type TokenIssuer interface {
	IssueAccessToken(account *UserAccount) (string, error)
}

type Service struct {
	users   UserStore
	issuer  TokenIssuer
	sender  mail.Sender
	appName string
}

func NewService(
	users UserStore,
	issuer TokenIssuer,
	sender mail.Sender,
	appName string,
) *Service {
	return &Service{
		users:   users,
		issuer:  issuer,
		sender:  sender,
		appName: appName,
	}
}

// Signup registers an unconfirmed user and dispatches a confirmation code
// by mail. A repeat signup with the same username and email rotates the
// stored code and resends it, so a lost mail never locks the account out.
// Duplicate username and email otherwise produce distinct messages so the
// caller knows which field to fix.
func (s *Service) Signup(
	ctx context.Context,
	req SignupRequest,
) (*SignupResponse, error) {
	if req.Username == "me" {
		return nil, fmt.Errorf(
			"this username is reserved: %w",
			core.ErrInvalidInput,
		)
	}

	account, err := s.users.AccountByUsername(ctx, req.Username)
	switch {
	case err == nil:
		if account.Email != strings.ToLower(req.Email) {
			return nil, fmt.Errorf(
				"username already registered: %w",
				core.ErrAlreadyExists,
			)
		}
		return s.resendCode(ctx, account)
	case !errors.Is(err, core.ErrNotFound):
		return nil, fmt.Errorf("check username: %w", err)
	}

	emailTaken, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if emailTaken {
		return nil, fmt.Errorf(
			"email already registered: %w",
			core.ErrAlreadyExists,
		)
	}

	code, err := core.GenerateConfirmationCode()
	if err != nil {
		return nil, err
	}

	account, err = s.users.CreateUnconfirmed(ctx, req.Username, req.Email, code)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.sendCode(ctx, account.Email, code); err != nil {
		return nil, err
	}

	return &SignupResponse{
		Username: account.Username,
		Email:    account.Email,
	}, nil
}

func (s *Service) resendCode(
	ctx context.Context,
	account *UserAccount,
) (*SignupResponse, error) {
	code, err := core.GenerateConfirmationCode()
	if err != nil {
		return nil, err
	}

	if err := s.users.RotateConfirmationCode(ctx, account.ID, code); err != nil {
		return nil, fmt.Errorf("rotate confirmation code: %w", err)
	}

	if err := s.sendCode(ctx, account.Email, code); err != nil {
		return nil, err
	}

	return &SignupResponse{
		Username: account.Username,
		Email:    account.Email,
	}, nil
}

func (s *Service) sendCode(ctx context.Context, email, code string) error {
	subject := fmt.Sprintf("Confirmation code for %s", s.appName)
	body := fmt.Sprintf("Your confirmation code: %s", code)
	if err := s.sender.Send(ctx, subject, body, email); err != nil {
		return fmt.Errorf("send confirmation mail: %w", err)
	}

	return nil
}

// Token exchanges a confirmation code for a signed access token. The
// submitted code is compared to the stored one as a string.
func (s *Service) Token(
	ctx context.Context,
	req TokenRequest,
) (*TokenResponse, error) {
	account, err := s.users.AccountByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !core.CompareCode(req.ConfirmationCode, account.ConfirmationCode) {
		return nil, fmt.Errorf(
			"incorrect confirmation code: %w",
			core.ErrInvalidInput,
		)
	}

	token, err := s.issuer.IssueAccessToken(account)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &TokenResponse{Token: token}, nil
}
