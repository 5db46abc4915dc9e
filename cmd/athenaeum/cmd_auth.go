package main

import (
	"context"
	"fmt"
	"time"

	"github.com/athenaeumhq/athenaeum/internal/auth"
	"github.com/athenaeumhq/athenaeum/internal/otp"
	"github.com/athenaeumhq/athenaeum/internal/session"
)

func (a *app) cmdLogin(ctx context.Context) error {
	username := a.prompt("Username: ")
	password := a.prompt("Password: ")

	dest, err := a.flow.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Printf("Welcome back. Landing: %s\n", dest)
	return nil
}

func (a *app) cmdSignup(ctx context.Context) error {
	role := a.prompt("Role (author/reviewer) [reviewer]: ")
	switch role {
	case "":
		role = session.RoleReviewer
	case session.RoleAuthor, session.RoleReviewer:
	default:
		return fmt.Errorf("unknown role %q", role)
	}

	p := auth.SignupParams{
		Username: a.prompt("Username: "),
		Email:    a.prompt("Email: "),
		Password: a.prompt("Password: "),
		Confirm:  a.prompt("Confirm password: "),
		Role:     role,
	}

	if score, label := auth.Strength(p.Password); label != "" {
		fmt.Printf("Password strength: %s (%d/4)\n", label, score)
	}

	flowCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch, err := a.flow.BeginSignup(flowCtx, p)
	if err != nil {
		return err
	}
	fmt.Printf("Verification code sent to %s. It expires in %s.\n", ch.Email(), otp.FormatTime(ch.Remaining()))

	dest, err := a.completeWithCode(flowCtx, ch, func(ctx context.Context) (string, error) {
		return a.flow.CompleteSignup(ctx, p, ch)
	}, func(ctx context.Context) error {
		return a.flow.ResendCode(ctx, ch)
	})
	if err != nil {
		return err
	}
	fmt.Printf("Account created. Landing: %s\n", dest)
	return nil
}

func (a *app) cmdForgot(ctx context.Context) error {
	email := a.prompt("Email: ")

	flowCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch, err := a.flow.BeginPasswordReset(flowCtx, email)
	if err != nil {
		return err
	}
	fmt.Printf("Reset code sent to %s. It expires in %s.\n", ch.Email(), otp.FormatTime(ch.Remaining()))

	_, err = a.completeWithCode(flowCtx, ch, func(ctx context.Context) (string, error) {
		newPw := a.prompt("New password: ")
		confirm := a.prompt("Confirm password: ")
		return "", a.flow.CompletePasswordReset(ctx, ch, newPw, confirm)
	}, func(ctx context.Context) error {
		return a.flow.ResendResetCode(ctx, ch)
	})
	if err != nil {
		return err
	}
	fmt.Println("Password reset. You can log in now.")
	return nil
}

// completeWithCode prompts for the emailed code, offering a resend once the
// window has expired. An empty entry re-checks the countdown.
func (a *app) completeWithCode(ctx context.Context, ch *otp.Challenge, complete func(context.Context) (string, error), resend func(context.Context) error) (string, error) {
	for {
		code := a.prompt(fmt.Sprintf("Code (%s left, empty to refresh): ", otp.FormatTime(ch.Remaining())))
		if code == "" {
			if ch.CanResend() {
				if yes := a.prompt("Code expired. Resend? (y/n): "); yes == "y" {
					if err := resend(ctx); err != nil {
						return "", err
					}
					fmt.Println("New code sent.")
				}
			}
			continue
		}
		ch.SetCode(code)
		return complete(ctx)
	}
}

func (a *app) cmdLogout(ctx context.Context) error {
	if !a.session.LoggedIn() {
		fmt.Println("Already logged out.")
		return nil
	}
	if err := a.flow.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out.")
	return nil
}

func (a *app) cmdChangePassword(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	current := a.prompt("Current password: ")
	newPw := a.prompt("New password: ")
	confirm := a.prompt("Confirm password: ")

	if err := a.flow.ChangePassword(ctx, current, newPw, confirm); err != nil {
		return err
	}
	fmt.Println("Password updated successfully.")
	return nil
}

func (a *app) cmdProfile(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	out, err := a.views.ProfileView(ctx)
	if err != nil {
		// Fall back to the cached record so the identity still shows
		// when the backend is unreachable.
		if cached, cerr := a.session.Profile(ctx); cerr == nil {
			fmt.Printf("%s <%s> (%s)\n", cached.Username, cached.Email, cached.Type)
			fmt.Println("Could not refresh from the server.")
			return nil
		}
		return err
	}
	fmt.Print(out)
	return nil
}

// cmdWhoami reports the cached identity without touching the network.
func (a *app) cmdWhoami(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if profile, err := a.session.Profile(ctx); err == nil {
		fmt.Printf("%s <%s> (%s)\n", profile.Username, profile.Email, profile.Type)
	} else {
		fmt.Printf("Logged in as %s\n", a.session.UserType())
	}
	claims, err := a.session.Claims()
	if err != nil {
		return err
	}
	if claims.Subject != "" {
		fmt.Printf("Subject: %s\n", claims.Subject)
	}
	if claims.ExpiresAt != nil {
		fmt.Printf("Token expires: %s\n", claims.ExpiresAt.Format(time.RFC1123))
		if a.session.ExpiresSoon(5 * time.Minute) {
			fmt.Println("Token expires soon. Log in again to refresh it.")
		}
	}
	return nil
}
