// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/mediacat/internal/core"
)

type fakeUserStore struct {
	accounts map[string]*UserAccount
	emails   map[string]bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		accounts: make(map[string]*UserAccount),
		emails:   make(map[string]bool),
	}
}

func (f *fakeUserStore) EmailExists(
	_ context.Context,
	email string,
) (bool, error) {
	return f.emails[email], nil
}

func (f *fakeUserStore) CreateUnconfirmed(
	_ context.Context,
	username, email, code string,
) (*UserAccount, error) {
	account := &UserAccount{
		ID:               fmt.Sprintf("id-%s", username),
		Username:         username,
		Email:            email,
		Role:             "user",
		ConfirmationCode: code,
	}
	f.accounts[username] = account
	f.emails[email] = true
	return account, nil
}

func (f *fakeUserStore) AccountByUsername(
	_ context.Context,
	username string,
) (*UserAccount, error) {
	account, ok := f.accounts[username]
	if !ok {
		return nil, fmt.Errorf("get user by username: %w", core.ErrNotFound)
	}
	return account, nil
}

func (f *fakeUserStore) RotateConfirmationCode(
	_ context.Context,
	id, code string,
) error {
	for _, account := range f.accounts {
		if account.ID == id {
			account.ConfirmationCode = code
			return nil
		}
	}
	return fmt.Errorf("update confirmation code: %w", core.ErrNotFound)
}

type fakeIssuer struct {
	issued int
}

func (f *fakeIssuer) IssueAccessToken(account *UserAccount) (string, error) {
	f.issued++
	return "token-for-" + account.Username, nil
}

type recordingSender struct {
	sent []sentMail
}

type sentMail struct {
	subject   string
	body      string
	recipient string
}

func (r *recordingSender) Send(
	_ context.Context,
	subject, body, recipient string,
) error {
	r.sent = append(r.sent, sentMail{subject, body, recipient})
	return nil
}

func newTestService() (*Service, *fakeUserStore, *fakeIssuer, *recordingSender) {
	store := newFakeUserStore()
	issuer := &fakeIssuer{}
	sender := &recordingSender{}
	return NewService(store, issuer, sender, "MediaCat"), store, issuer, sender
}

func TestSignupRejectsReservedUsername(t *testing.T) {
	svc, _, _, sender := newTestService()

	_, err := svc.Signup(context.Background(), SignupRequest{
		Username: "me",
		Email:    "me@example.com",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Empty(t, sender.sent)
}

func TestSignupDuplicateMessagesAreDistinct(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Signup(context.Background(), SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), SignupRequest{
		Username: "alice",
		Email:    "other@example.com",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "username already registered")

	_, err = svc.Signup(context.Background(), SignupRequest{
		Username: "alice2",
		Email:    "alice@example.com",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "email already registered")
}

func TestSignupSendsExactlyOneMailWithCode(t *testing.T) {
	svc, store, _, sender := newTestService()

	resp, err := svc.Signup(context.Background(), SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, "alice@example.com", resp.Email)

	require.Len(t, sender.sent, 1)
	mail := sender.sent[0]
	assert.Equal(t, "alice@example.com", mail.recipient)
	assert.Contains(t, mail.subject, "MediaCat")

	code := store.accounts["alice"].ConfirmationCode
	require.NotEmpty(t, code)
	assert.Contains(t, mail.body, code)
}

func TestSignupRepeatResendsFreshCode(t *testing.T) {
	svc, store, _, sender := newTestService()

	_, err := svc.Signup(context.Background(), SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)
	firstCode := store.accounts["alice"].ConfirmationCode

	resp, err := svc.Signup(context.Background(), SignupRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
	})
	require.NoError(t, err,
		"a matching username and email pair gets a new code, not a conflict")
	assert.Equal(t, "alice", resp.Username)

	secondCode := store.accounts["alice"].ConfirmationCode
	assert.NotEqual(t, firstCode, secondCode)

	require.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent[1].body, secondCode)
}

func TestTokenExchange(t *testing.T) {
	svc, store, issuer, _ := newTestService()

	_, err := svc.Signup(context.Background(), SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)
	code := store.accounts["alice"].ConfirmationCode

	resp, err := svc.Token(context.Background(), TokenRequest{
		Username:         "alice",
		ConfirmationCode: code,
	})
	require.NoError(t, err)
	assert.Equal(t, "token-for-alice", resp.Token)
	assert.Equal(t, 1, issuer.issued)
}

func TestTokenWrongCode(t *testing.T) {
	svc, _, issuer, _ := newTestService()

	_, err := svc.Signup(context.Background(), SignupRequest{
		Username: "alice",
		Email:    "alice@example.com",
	})
	require.NoError(t, err)

	_, err = svc.Token(context.Background(), TokenRequest{
		Username:         "alice",
		ConfirmationCode: "not-the-code",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Zero(t, issuer.issued)
}

func TestTokenUnknownUsername(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Token(context.Background(), TokenRequest{
		Username:         "ghost",
		ConfirmationCode: "12345",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound,
		"an unknown username is a 404, not a validation failure")
}
