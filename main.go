/* main.go
 * The "main" method for running the AIRO 2026 web client. Configuration is read from the environment (and .env when
 * present); see config/config.go for the variables
 * Usage: go run . -addr=":8080" -backend="memory"
 * Authors: AIRO Web Team
 */

package main

import (
	"context"
	"crypto/rand"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"airo-web/api/api"
	"airo-web/api/external"
	"airo-web/api/session"
	"airo-web/api/store"
	"airo-web/bot"
	"airo-web/config"
	"airo-web/web"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using the process environment")
	}

	//Flags
	addrPtr := flag.String("addr", "", "Address to listen on, overrides HTTP_ADDR, e.g. :8080")
	backendPtr := flag.String("backend", "", "Session storage backend, overrides SESSION_BACKEND: memory, mongo or redis")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if *addrPtr != "" {
		cfg.HTTPAddr = *addrPtr
	}
	if *backendPtr != "" {
		cfg.SessionBackend = *backendPtr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.New(ctx, store.Options{
		Backend:  cfg.SessionBackend,
		MongoURI: cfg.MongoURI,
		MongoDB:  cfg.MongoDB,
		RedisURL: cfg.RedisURL,
		TTL:      cfg.SessionTTL,
	})
	if err != nil {
		log.Fatalf("failed to initialize session storage: %v", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			log.Printf("failed to close session storage: %v", err)
		}
	}()
	log.Printf("session storage: %s", cfg.SessionBackend)

	backend := external.NewClient(cfg.APIURL, cfg.APIRateLimit)

	var notifier api.Notifier
	if cfg.DiscordEnabled() {
		discord, closeDiscord, err := bot.Connect(cfg.DiscordToken)
		if err != nil {
			log.Printf("discord announcements disabled: %v", err)
		} else {
			announcer := bot.NewAnnouncer(discord, cfg.DiscordChannelID, 0)
			defer closeDiscord()
			defer announcer.Close()
			notifier = announcer
		}
	}

	festival, err := api.NewAPI(backend, notifier)
	if err != nil {
		log.Fatalf("failed to initialize API: %v", err)
	}

	var oauth *oauth2.Config
	if cfg.GoogleEnabled() {
		oauth = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.PublicURL + "/auth/callback",
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		}
	}

	csrfKey := []byte(cfg.CSRFKey)
	if len(csrfKey) == 0 {
		// form tokens issued before a restart stop validating, which is fine for local development
		csrfKey = make([]byte, 32)
		if _, err := rand.Read(csrfKey); err != nil {
			log.Fatalf("failed to generate csrf key: %v", err)
		}
		log.Println("CSRF_KEY not set, using a random key for this run")
	}

	err = web.Start(ctx, web.Config{
		Addr:           cfg.HTTPAddr,
		API:            festival,
		Sessions:       session.NewManager(st, backend),
		OAuth:          oauth,
		GoogleClientID: cfg.GoogleClientID,
		PublicURL:      cfg.PublicURL,
		CSRFKey:        csrfKey,
		SecureCookies:  cfg.SecureCookies,
	})
	if err != nil {
		log.Printf("HTTP server stopped: %v", err)
	}
}
