package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/athenaeumhq/athenaeum/internal/api"
	"github.com/athenaeumhq/athenaeum/internal/otp"
	"github.com/athenaeumhq/athenaeum/internal/session"
)

// Destinations after a successful login, keyed by role.
const (
	DestAuthorDashboard = "author-dashboard"
	DestReaderDashboard = "reader-dashboard"
)

// Destination maps a role to its post-login landing view. Unknown roles
// land on the reader dashboard.
func Destination(userType string) string {
	if userType == session.RoleAuthor {
		return DestAuthorDashboard
	}
	return DestReaderDashboard
}

// Flow drives the credential sequences against the backend and keeps the
// local session in sync.
type Flow struct {
	client  *api.Client
	session *session.Cache
	logger  *zap.Logger
}

// NewFlow wires a credential flow over the shared API client and session.
func NewFlow(client *api.Client, sess *session.Cache, logger *zap.Logger) *Flow {
	return &Flow{client: client, session: sess, logger: logger}
}

// Login authenticates, persists the grant, and returns the landing view.
// The profile fetch is best effort: its failure is logged, never fatal,
// because the session is already valid without it.
func (f *Flow) Login(ctx context.Context, username, password string) (string, error) {
	grant, err := f.client.Login(ctx, username, password)
	if err != nil {
		return "", err
	}
	if err := f.session.Persist(ctx, grant.AccessToken, grant.RefreshToken, grant.UserType, nil); err != nil {
		return "", fmt.Errorf("persist session: %w", err)
	}
	f.cacheProfile(ctx)
	return Destination(grant.UserType), nil
}

// SignupParams carries the validated signup form plus the chosen role.
type SignupParams struct {
	Username string
	Email    string
	Password string
	Confirm  string
	Role     string
}

// BeginSignup validates the form and requests an email verification code,
// returning a running countdown for the code's lifetime. Callers must
// cancel ctx when the flow is abandoned.
func (f *Flow) BeginSignup(ctx context.Context, p SignupParams) (*otp.Challenge, error) {
	if err := ValidateSignup(p.Username, p.Email, p.Password, p.Confirm); err != nil {
		return nil, err
	}
	ch := otp.NewChallenge(p.Email)
	if err := f.requestCode(ctx, ch, f.client.SendOTP); err != nil {
		return nil, err
	}
	go ch.Run(ctx)
	return ch, nil
}

// ResendCode requests a fresh verification code if the countdown allows it.
func (f *Flow) ResendCode(ctx context.Context, ch *otp.Challenge) error {
	if !ch.CanResend() {
		return otp.ErrResendBlocked
	}
	return f.requestCode(ctx, ch, f.client.SendOTP)
}

// CompleteSignup verifies the code, registers the account, then logs in and
// persists the session, chaining straight through to the landing view.
func (f *Flow) CompleteSignup(ctx context.Context, p SignupParams, ch *otp.Challenge) (string, error) {
	if !ch.CanSubmit() {
		return "", otp.ErrExpired
	}
	if err := f.client.VerifyOTP(ctx, p.Email, ch.Code()); err != nil {
		return "", err
	}
	if err := f.client.Signup(ctx, api.SignupRequest{
		Username: p.Username,
		Email:    p.Email,
		Password: p.Password,
		Type:     p.Role,
	}); err != nil {
		return "", err
	}
	return f.Login(ctx, p.Username, p.Password)
}

// BeginPasswordReset requests a reset code and starts its countdown.
func (f *Flow) BeginPasswordReset(ctx context.Context, email string) (*otp.Challenge, error) {
	if !ValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	ch := otp.NewChallenge(email)
	if err := f.requestCode(ctx, ch, f.client.ForgotPassword); err != nil {
		return nil, err
	}
	go ch.Run(ctx)
	return ch, nil
}

// ResendResetCode requests a fresh reset code if the countdown allows it.
func (f *Flow) ResendResetCode(ctx context.Context, ch *otp.Challenge) error {
	if !ch.CanResend() {
		return otp.ErrResendBlocked
	}
	return f.requestCode(ctx, ch, f.client.ForgotPassword)
}

// CompletePasswordReset submits the code with the replacement password.
func (f *Flow) CompletePasswordReset(ctx context.Context, ch *otp.Challenge, newPassword, confirm string) error {
	if !CheckPassword(newPassword).All() {
		return ErrWeakPassword
	}
	if newPassword != confirm {
		return ErrPasswordMismatch
	}
	if !ch.CanSubmit() {
		return otp.ErrExpired
	}
	return f.client.ResetPassword(ctx, ch.Email(), ch.Code(), newPassword, confirm)
}

// ChangePassword validates the form and updates the password server-side.
func (f *Flow) ChangePassword(ctx context.Context, current, newPassword, confirm string) error {
	if err := ValidateChangePassword(current, newPassword, confirm); err != nil {
		return err
	}
	return f.client.ChangePassword(ctx, current, newPassword)
}

// Logout tells the backend to drop the session and clears the local cache.
// The local clear happens even when the server call fails; there is no
// state where the user stays logged in locally.
func (f *Flow) Logout(ctx context.Context) error {
	if err := f.client.Logout(ctx); err != nil {
		f.logger.Warn("server logout failed", zap.Error(err))
	}
	return f.session.Clear(ctx)
}

// requestCode marks the challenge in flight, calls the send endpoint, and
// starts the countdown on success.
func (f *Flow) requestCode(ctx context.Context, ch *otp.Challenge, send func(context.Context, string) error) error {
	if !ch.BeginRequest() {
		return otp.ErrResendBlocked
	}
	defer ch.EndRequest()

	if err := send(ctx, ch.Email()); err != nil {
		return err
	}
	ch.Start()
	return nil
}

// cacheProfile fetches and stores the profile record after login.
func (f *Flow) cacheProfile(ctx context.Context) {
	profile, err := f.client.GetProfile(ctx)
	if err != nil {
		f.logger.Warn("profile fetch after login failed", zap.Error(err))
		return
	}
	err = f.session.SetProfile(ctx, &session.Profile{
		UUID:     profile.UUID,
		Username: profile.Username,
		Email:    profile.Email,
		Type:     profile.Type,
	})
	if err != nil {
		f.logger.Warn("profile cache write failed", zap.Error(err))
	}
}
