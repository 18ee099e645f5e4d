package screen

import (
	"context"
	"errors"

	"github.com/empite/localfeeds/internal/notify"
	"github.com/empite/localfeeds/internal/session"
	"github.com/empite/localfeeds/internal/validation"
	"go.uber.org/zap"
)

var ErrInvalidForm = errors.New("login form is invalid")

type Authenticator interface {
	SignIn(ctx context.Context, email string, password string) (*session.User, error)
	SignInWithFacebook(ctx context.Context) error
}

type Login struct {
	auth     Authenticator
	notifier notify.Notifier
	logger   *zap.SugaredLogger
}

func NewLogin(auth Authenticator, notifier notify.Notifier, logger *zap.SugaredLogger) *Login {
	if auth == nil {
		panic("Missing authenticator in login controller")
	}
	if notifier == nil {
		notifier = notify.Func(func(string, string) {})
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Login{auth: auth, notifier: notifier, logger: logger.With("screen", "login")}
}

// Submit validates the form first; an invalid form returns ErrInvalidForm
// with the per-field errors and never reaches the identity provider.
func (l *Login) Submit(ctx context.Context, email string, password string) (validation.FormResult, *session.User, error) {
	form := validation.ValidateLoginForm(email, password)
	if !form.IsValid {
		return form, nil, ErrInvalidForm
	}

	u, err := l.auth.SignIn(ctx, email, password)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "Failed to sign in"
		}
		l.logger.Warnw(msg, "action", "SignIn")
		l.notifier.Notify("Login Failed", msg)
		return form, nil, err
	}
	return form, u, nil
}

func (l *Login) SubmitFacebook(ctx context.Context) error {
	err := l.auth.SignInWithFacebook(ctx)
	if errors.Is(err, session.ErrSocialSignInUnavailable) {
		l.notifier.Notify("Coming Soon", "Facebook login is temporarily unavailable. Please use email/password login.")
		return nil
	}
	if err != nil {
		l.notifier.Notify("Login Failed", err.Error())
	}
	return err
}
