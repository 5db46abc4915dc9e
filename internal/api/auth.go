package api

import (
	"context"
	"net/http"
	"net/url"
)

// Login exchanges credentials for a token grant. The endpoint takes
// URL-encoded form fields rather than JSON.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var result LoginResult
	if err := c.doForm(ctx, "/auth/login", form, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SignupRequest is the new-account payload.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Type     string `json:"type"`
}

// Signup registers a new account. The email must already be verified via
// the OTP endpoints.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	return c.doJSON(ctx, http.MethodPost, "/users/users", req, nil)
}

// SendOTP emails a one-time verification code to the address.
func (c *Client) SendOTP(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/api/auth/send-otp", body, nil)
}

// VerifyOTP checks a one-time code against the address it was sent to.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) error {
	body := map[string]string{"email": email, "otpCode": code}
	return c.doJSON(ctx, http.MethodPost, "/api/auth/verify-otp", body, nil)
}

// ForgotPassword starts a password reset by emailing a one-time code.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.doJSON(ctx, http.MethodPost, "/api/auth/forgot-password", body, nil)
}

// ResetPassword completes a password reset using the emailed code.
func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword, confirmPassword string) error {
	body := map[string]string{
		"email":           email,
		"otpCode":         code,
		"newPassword":     newPassword,
		"confirmPassword": confirmPassword,
	}
	return c.doJSON(ctx, http.MethodPost, "/api/auth/reset-password", body, nil)
}

// ChangePassword updates the authenticated user's password.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	body := map[string]string{
		"current_password": currentPassword,
		"new_password":     newPassword,
	}
	return c.doJSON(ctx, http.MethodPost, "/auth/change-password", body, nil)
}

// Logout invalidates the session server-side. Local state is cleared by the
// caller regardless of the outcome.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// GetProfile fetches the authenticated user's account record.
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	var env Envelope
	if err := c.doJSON(ctx, http.MethodGet, "/users/profile", nil, &env); err != nil {
		return nil, err
	}
	var profile Profile
	if err := env.Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetDashboard fetches the author dashboard aggregates.
func (c *Client) GetDashboard(ctx context.Context) (*Dashboard, error) {
	var env Envelope
	if err := c.doJSON(ctx, http.MethodGet, "/dashboard", nil, &env); err != nil {
		return nil, err
	}
	var dash Dashboard
	if err := env.Decode(&dash); err != nil {
		return nil, err
	}
	return &dash, nil
}
