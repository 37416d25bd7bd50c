package session

import (
	"context"
	"errors"

	"village-ems/internal/api"
	"village-ems/internal/models"
	"village-ems/internal/view"
	"village-ems/pkg/auth"

	"github.com/sirupsen/logrus"
)

// ErrForgedRole marks a privileged role claim the server refused to
// confirm. The session is already torn down when this is returned.
var ErrForgedRole = errors.New("privileged role claim rejected by server")

// Decision is the typed outcome of a guard check.
type Decision int

const (
	// Allowed: the session may enter the requested screen.
	Allowed Decision = iota
	// Redirect: send the user to Target instead; no fetches were issued.
	Redirect
	// Revoked: the session was forged or stale and has been torn down.
	Revoked
)

type CheckResult struct {
	Decision Decision
	Target   view.Screen
}

// Guard gates entry to every protected screen. It trusts the persisted
// role only after the server confirms privileged claims.
type Guard struct {
	store *Store
	api   *api.Client
	log   *logrus.Entry
}

func NewGuard(store *Store, client *api.Client, log *logrus.Entry) *Guard {
	return &Guard{store: store, api: client, log: log}
}

// Check runs once per screen mount, before any data fetch.
func (g *Guard) Check(ctx context.Context, requested view.Screen) CheckResult {
	sess, ok := g.store.Current()
	if !ok {
		return CheckResult{Decision: Redirect, Target: view.ScreenLogin}
	}

	// Local expiry check on the token claims. The signature is not
	// verified here; the server remains the authority on validity.
	if claims, err := auth.InspectClaims(sess.Token); err == nil && claims.Expired() {
		g.log.WithField("user_id", sess.User.ID).Info("session token expired, tearing down")
		g.store.Clear()
		return CheckResult{Decision: Revoked, Target: view.ScreenLogin}
	}

	home := view.ScreenFor(sess.User.Role)
	if requested != home {
		// Wrong screen for the role: route to the correct one rather
		// than showing an error.
		return CheckResult{Decision: Redirect, Target: home}
	}

	if sess.User.Role.Privileged() {
		if err := g.api.VerifyPrivilege(ctx); err != nil {
			g.log.WithFields(logrus.Fields{
				"user_id": sess.User.ID,
				"role":    sess.User.Role,
			}).Warn("forged role detected, tearing down session")
			g.store.Clear()
			return CheckResult{Decision: Revoked, Target: view.ScreenLogin}
		}
	}

	return CheckResult{Decision: Allowed, Target: requested}
}

// Establish exchanges credentials for a session and persists it.
func (g *Guard) Establish(ctx context.Context, email, password string) (*models.Session, error) {
	sess, err := g.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := g.store.Set(sess); err != nil {
		return nil, err
	}
	g.log.WithFields(logrus.Fields{
		"user_id": sess.User.ID,
		"role":    sess.User.Role,
	}).Info("session established")
	return sess, nil
}

// RegisterAccount creates an account; the backend answers with the same
// session contract as login.
func (g *Guard) RegisterAccount(ctx context.Context, req api.RegisterRequest) (*models.Session, error) {
	sess, err := g.api.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := g.store.Set(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Logout is a two-step protocol: best-effort server invalidation, then
// unconditional local teardown. The server call failing does not keep
// the session alive locally.
func (g *Guard) Logout(ctx context.Context) view.Screen {
	if _, ok := g.store.Current(); ok {
		if err := g.api.Logout(ctx); err != nil {
			g.log.WithError(err).Warn("server logout failed, clearing local session anyway")
		}
	}
	g.store.Clear()
	return view.ScreenLogin
}

// EntryPrompt resolves the logged-in state on the login/register
// screens. When a session already exists the user chooses between
// continuing to their screen and re-authenticating, so this returns the
// continuation target rather than silently redirecting.
func (g *Guard) EntryPrompt() (view.Screen, bool) {
	sess, ok := g.store.Current()
	if !ok {
		return view.ScreenLogin, false
	}
	return view.ScreenFor(sess.User.Role), true
}
