package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/athenaeumhq/athenaeum/internal/api"
	"github.com/athenaeumhq/athenaeum/internal/otp"
	"github.com/athenaeumhq/athenaeum/internal/session"
	"github.com/athenaeumhq/athenaeum/internal/store"
)

// fakeBackend records requests and serves canned auth responses.
type fakeBackend struct {
	mu       sync.Mutex
	paths    []string
	failWith map[string]int // path -> status code
}

func (b *fakeBackend) record(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.paths = append(b.paths, path)
}

func (b *fakeBackend) requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.paths...)
}

func (b *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.record(r.URL.Path)
		if code, ok := b.failWith[r.URL.Path]; ok {
			w.WriteHeader(code)
			w.Write([]byte(`{"detail":"forced failure"}`))
			return
		}
		switch r.URL.Path {
		case "/auth/login":
			w.Write([]byte(`{"accessToken":"at-1","refreshToken":"rt-1","userType":"author"}`))
		case "/users/profile":
			w.Write([]byte(`{"status":"1","data":{"username":"amara","email":"amara@example.com","type":"author"}}`))
		default:
			w.Write([]byte(`{"status":"1"}`))
		}
	})
}

func newTestFlow(t *testing.T, backend *fakeBackend) (*Flow, *session.Cache) {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	sess := session.New(context.Background(), st, zap.NewNop())
	client := api.NewClient(srv.URL, zap.NewNop(), api.WithTokenSource(sess))
	return NewFlow(client, sess, zap.NewNop()), sess
}

func validParams() SignupParams {
	return SignupParams{
		Username: "amara",
		Email:    "amara@example.com",
		Password: "Str0ng!pw",
		Confirm:  "Str0ng!pw",
		Role:     session.RoleAuthor,
	}
}

func TestLoginPersistsSession(t *testing.T) {
	backend := &fakeBackend{}
	flow, sess := newTestFlow(t, backend)
	ctx := context.Background()

	dest, err := flow.Login(ctx, "amara", "Str0ng!pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if dest != DestAuthorDashboard {
		t.Errorf("destination = %q, want %q", dest, DestAuthorDashboard)
	}
	if sess.Token(ctx) != "at-1" || sess.RefreshToken() != "rt-1" || sess.UserType() != session.RoleAuthor {
		t.Errorf("session = %q/%q/%q", sess.Token(ctx), sess.RefreshToken(), sess.UserType())
	}
	profile, err := sess.Profile(ctx)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if profile.Username != "amara" {
		t.Errorf("profile username = %q", profile.Username)
	}
}

func TestLoginSurvivesProfileFailure(t *testing.T) {
	backend := &fakeBackend{failWith: map[string]int{"/users/profile": http.StatusInternalServerError}}
	flow, sess := newTestFlow(t, backend)
	ctx := context.Background()

	if _, err := flow.Login(ctx, "amara", "Str0ng!pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !sess.LoggedIn() {
		t.Error("session lost because profile fetch failed")
	}
	if _, err := sess.Profile(ctx); !errors.Is(err, session.ErrNoSession) {
		t.Errorf("Profile error = %v, want ErrNoSession", err)
	}
}

func TestBeginSignupRejectsInvalidFormWithoutNetwork(t *testing.T) {
	backend := &fakeBackend{}
	flow, _ := newTestFlow(t, backend)

	p := validParams()
	p.Confirm = "different"
	if _, err := flow.BeginSignup(context.Background(), p); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("BeginSignup error = %v, want ErrPasswordMismatch", err)
	}
	if got := backend.requests(); len(got) != 0 {
		t.Errorf("requests = %v, want none for invalid form", got)
	}
}

func TestSignupChain(t *testing.T) {
	backend := &fakeBackend{}
	flow, sess := newTestFlow(t, backend)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := validParams()
	ch, err := flow.BeginSignup(ctx, p)
	if err != nil {
		t.Fatalf("BeginSignup: %v", err)
	}
	if !ch.CanSubmit() {
		t.Fatal("countdown not running after BeginSignup")
	}

	ch.SetCode("482913")
	dest, err := flow.CompleteSignup(ctx, p, ch)
	if err != nil {
		t.Fatalf("CompleteSignup: %v", err)
	}
	if dest != DestAuthorDashboard {
		t.Errorf("destination = %q, want %q", dest, DestAuthorDashboard)
	}

	want := []string{"/api/auth/send-otp", "/api/auth/verify-otp", "/users/users", "/auth/login", "/users/profile"}
	got := backend.requests()
	if len(got) != len(want) {
		t.Fatalf("requests = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("request[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if !sess.LoggedIn() {
		t.Error("not logged in after signup chain")
	}
}

func TestCompleteSignupExpiredWindow(t *testing.T) {
	backend := &fakeBackend{}
	flow, _ := newTestFlow(t, backend)

	ch := otp.NewChallenge("amara@example.com")
	ch.SetCode("482913")
	if _, err := flow.CompleteSignup(context.Background(), validParams(), ch); !errors.Is(err, otp.ErrExpired) {
		t.Fatalf("CompleteSignup error = %v, want ErrExpired", err)
	}
	if got := backend.requests(); len(got) != 0 {
		t.Errorf("requests = %v, want none after expiry", got)
	}
}

func TestResendGatedWhileCounting(t *testing.T) {
	backend := &fakeBackend{}
	flow, _ := newTestFlow(t, backend)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := flow.BeginSignup(ctx, validParams())
	if err != nil {
		t.Fatalf("BeginSignup: %v", err)
	}
	if err := flow.ResendCode(ctx, ch); !errors.Is(err, otp.ErrResendBlocked) {
		t.Fatalf("ResendCode error = %v, want ErrResendBlocked", err)
	}

	for i := 0; i < otp.DefaultTTL; i++ {
		ch.Tick()
	}
	if err := flow.ResendCode(ctx, ch); err != nil {
		t.Fatalf("ResendCode after expiry: %v", err)
	}
	if !ch.CanSubmit() {
		t.Error("countdown not restarted after resend")
	}
}

func TestPasswordResetFlow(t *testing.T) {
	backend := &fakeBackend{}
	flow, _ := newTestFlow(t, backend)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := flow.BeginPasswordReset(ctx, "amara@example.com")
	if err != nil {
		t.Fatalf("BeginPasswordReset: %v", err)
	}
	ch.SetCode("482913")

	if err := flow.CompletePasswordReset(ctx, ch, "weak", "weak"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("weak password error = %v, want ErrWeakPassword", err)
	}
	if err := flow.CompletePasswordReset(ctx, ch, "Str0ng!pw", "other"); !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("mismatch error = %v, want ErrPasswordMismatch", err)
	}
	if err := flow.CompletePasswordReset(ctx, ch, "Str0ng!pw", "Str0ng!pw"); err != nil {
		t.Fatalf("CompletePasswordReset: %v", err)
	}

	want := []string{"/api/auth/forgot-password", "/api/auth/reset-password"}
	got := backend.requests()
	if len(got) != len(want) {
		t.Fatalf("requests = %v, want %v", got, want)
	}
}

func TestBeginPasswordResetBadEmail(t *testing.T) {
	backend := &fakeBackend{}
	flow, _ := newTestFlow(t, backend)
	if _, err := flow.BeginPasswordReset(context.Background(), "not-an-email"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("BeginPasswordReset error = %v, want ErrInvalidEmail", err)
	}
}

func TestLogoutClearsEvenWhenServerFails(t *testing.T) {
	backend := &fakeBackend{failWith: map[string]int{"/api/auth/logout": http.StatusInternalServerError}}
	flow, sess := newTestFlow(t, backend)
	ctx := context.Background()

	if _, err := flow.Login(ctx, "amara", "Str0ng!pw"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := flow.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if sess.LoggedIn() {
		t.Error("still logged in after Logout")
	}
}
