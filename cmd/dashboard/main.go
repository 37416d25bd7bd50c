// cmd/dashboard/main.go - headless dashboard client
//
// Restores (or establishes) a session, runs the guard for the role's
// screen, then keeps the active view synchronized and renders the
// status cards to the log. Useful for exercising the client core
// against a running backend.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"village-ems/internal/api"
	"village-ems/internal/config"
	"village-ems/internal/notify"
	"village-ems/internal/session"
	"village-ems/internal/status"
	syncengine "village-ems/internal/sync"
	"village-ems/internal/view"
	"village-ems/pkg/logger"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	store := session.NewStore(cfg.SessionFile)
	if err := store.Load(); err != nil {
		log.WithError(err).Fatal("failed to load session store")
	}

	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout, store.Token, log.WithField("component", "api"))
	weather := api.NewWeatherClient(cfg.WeatherBaseURL, cfg.WeatherSuffix, cfg.RequestTimeout)
	guard := session.NewGuard(store, client, log.WithField("component", "guard"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The logged-in prompt collapses to "continue" in headless use;
	// without a session, credentials from the environment establish one.
	target, loggedIn := guard.EntryPrompt()
	if !loggedIn {
		email, password := os.Getenv("VEMS_EMAIL"), os.Getenv("VEMS_PASSWORD")
		if email == "" || password == "" {
			log.Fatal("no session: set VEMS_EMAIL and VEMS_PASSWORD to log in")
		}
		sess, err := guard.Establish(ctx, email, password)
		if err != nil {
			log.WithError(err).Fatal("login failed")
		}
		target = view.ScreenFor(sess.User.Role)
	}

	check := guard.Check(ctx, target)
	switch check.Decision {
	case session.Redirect:
		if check.Target == view.ScreenLogin {
			log.Fatal("session rejected, please log in again")
		}
		target = check.Target
	case session.Revoked:
		log.Fatal("session revoked by server")
	}

	sess, ok := store.Current()
	if !ok {
		log.Fatal("no session after guard check")
	}

	board := status.NewBoard()
	queue := notify.NewQueue(cfg.NotificationTTL)
	defer queue.Close()

	engine := syncengine.NewEngine(client, weather, board, sess, target, log.WithField("component", "sync"))
	engine.OnUpdate(func() {
		for _, card := range board.Cards() {
			log.WithFields(logrus.Fields{
				"card":  card.Label,
				"value": card.Value,
				"color": status.SeverityColor(card.Value),
			}).Info("status card")
		}
	})

	// Supervisors start scoped to their first accessible village.
	if target == view.ScreenSupervisor {
		villages, err := client.Villages(ctx)
		if err != nil {
			log.WithError(err).Fatal("failed to fetch villages")
		}
		for _, v := range villages {
			for _, id := range sess.User.VillageIDs {
				if v.ID == id {
					engine.SetScope(ctx, v.ID, v.Name)
					queue.Success("Switched to " + v.Name)
					break
				}
			}
			if engine.Scope() != nil {
				break
			}
		}
		if engine.Scope() == nil {
			log.Fatal("supervisor has no accessible villages")
		}
	}

	router := view.NewRouter(target, os.Getenv("VEMS_FRAGMENT"))
	router.OnChange(func(v view.View) {
		engine.SetView(ctx, v)
	})
	engine.SetView(ctx, router.Current())
	engine.Refresh(ctx)

	log.WithFields(logrus.Fields{
		"screen": target.String(),
		"view":   string(router.Current()),
		"user":   sess.User.Name,
	}).Info("dashboard running, Ctrl+C to exit")

	// SIGHUP acts as the user-initiated "Refresh" action; nothing
	// refreshes automatically.
	refresh := make(chan os.Signal, 1)
	signal.Notify(refresh, syscall.SIGHUP)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-refresh:
			engine.Refresh(ctx)
		case <-quit:
			log.Info("exiting")
			return
		}
	}
}
