// Package otp models the one-time-passcode challenge: a 300 second
// countdown that gates code submission and resend.
package otp

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultTTL is the countdown length in seconds for a fresh challenge.
const DefaultTTL = 300

// Gate violations.
var (
	ErrExpired       = errors.New("otp: code window expired")
	ErrResendBlocked = errors.New("otp: resend not available yet")
)

// Challenge is a time-boxed code-entry window for one email address.
// The countdown strictly decreases to zero once started and never goes
// negative. Submission is allowed only while it is above zero; resend only
// once it reaches zero and no request is in flight.
type Challenge struct {
	mu         sync.Mutex
	email      string
	remaining  int
	requesting bool
	code       string
}

// NewChallenge creates a challenge for email. The countdown does not run
// until Start is called (after the code request succeeds).
func NewChallenge(email string) *Challenge {
	return &Challenge{email: email}
}

// Email returns the address the code was sent to.
func (c *Challenge) Email() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.email
}

// Start resets the countdown to the full TTL. Called after each successful
// send or resend.
func (c *Challenge) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining = DefaultTTL
}

// Tick advances the countdown by one second, flooring at zero.
func (c *Challenge) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining > 0 {
		c.remaining--
	}
}

// Remaining returns the seconds left.
func (c *Challenge) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Expired reports whether the countdown has reached zero.
func (c *Challenge) Expired() bool {
	return c.Remaining() == 0
}

// CanSubmit reports whether code submission is still allowed.
func (c *Challenge) CanSubmit() bool {
	return c.Remaining() > 0
}

// CanResend reports whether a resend is allowed: only once the countdown
// has expired and no request is in flight.
func (c *Challenge) CanResend() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining == 0 && !c.requesting
}

// BeginRequest marks a network request in flight; it returns false if one
// already is.
func (c *Challenge) BeginRequest() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.requesting {
		return false
	}
	c.requesting = true
	return true
}

// EndRequest clears the in-flight flag.
func (c *Challenge) EndRequest() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requesting = false
}

// SetCode stores the entered code buffer.
func (c *Challenge) SetCode(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.code = code
}

// Code returns the entered code buffer.
func (c *Challenge) Code() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code
}

// Run drives the countdown with one tick per second until the context is
// cancelled. The single ticker is stopped on return, so an abandoned
// challenge leaks no timers.
func (c *Challenge) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Tick()
		}
	}
}

// FormatTime renders seconds as M:SS with zero-padded seconds.
func FormatTime(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
