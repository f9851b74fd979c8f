package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-identity-service/applications"
	applicationpg "github.com/jrsteele09/go-identity-service/applications/postgres"
	applicationfakes "github.com/jrsteele09/go-identity-service/applications/repofakes"
	"github.com/jrsteele09/go-identity-service/crypto"
	"github.com/jrsteele09/go-identity-service/googleauth"
	"github.com/jrsteele09/go-identity-service/identity"
	"github.com/jrsteele09/go-identity-service/internal/config"
	"github.com/jrsteele09/go-identity-service/server"
	sessionpg "github.com/jrsteele09/go-identity-service/sessions/postgres"
	sessionfakes "github.com/jrsteele09/go-identity-service/sessions/repofakes"
	"github.com/jrsteele09/go-identity-service/token"
	userpg "github.com/jrsteele09/go-identity-service/users/postgres"
	userfakes "github.com/jrsteele09/go-identity-service/users/repofake"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if err := run(logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
	logger.Info().Msg("server stopped")
}

func run(logger zerolog.Logger) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	displayAppname(cfg.AppName)

	ctx := context.Background()

	repos, cleanup, err := buildRepos(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	signer, err := buildSigner(cfg)
	if err != nil {
		return err
	}

	issuer, err := token.NewIssuer(signer, cfg.JWTIssuer,
		token.WithTokenExpiry(cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry))
	if err != nil {
		return err
	}

	hasher := crypto.NewHasher(cfg.BcryptCost)

	options := []identity.ServiceOption{}
	if cfg.GoogleClientID != "" {
		verifier, err := googleauth.NewVerifier(ctx, cfg.GoogleClientID)
		if err != nil {
			return fmt.Errorf("google verifier: %w", err)
		}
		options = append(options, identity.WithGoogleVerifier(verifier))
	} else {
		logger.Warn().Msg("GOOGLE_CLIENT_ID not set, google login disabled")
	}

	identityService, err := identity.NewService(repos, hasher, issuer, options...)
	if err != nil {
		return err
	}

	srv, err := server.New(cfg, identityService, issuer, applications.NewCreator(repos.Applications), logger)
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: cfg.Addr(), Handler: srv}
	go listenAndServe(httpServer, logger)
	waitForStopSignal()
	return shutdown(httpServer)
}

// buildRepos wires the PostgreSQL repositories when DATABASE_URL is set and
// falls back to in-memory repositories for local development.
func buildRepos(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (identity.Repos, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn().Msg("DATABASE_URL not set, using in-memory repositories")
		return identity.Repos{
			Users:        userfakes.NewFakeUserRepo(),
			Applications: applicationfakes.NewFakeApplicationRepo(),
			Sessions:     sessionfakes.NewFakeSessionRepo(),
		}, func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return identity.Repos{}, nil, fmt.Errorf("connect database: %w", err)
	}

	return identity.Repos{
		Users:        userpg.NewUserRepo(pool),
		Applications: applicationpg.NewApplicationRepo(pool),
		Sessions:     sessionpg.NewSessionRepo(pool),
	}, pool.Close, nil
}

// buildSigner picks the signing scheme from configuration: RS256 when key PEMs
// are provided, HS256 otherwise. Access and refresh tokens share the signer.
func buildSigner(cfg *config.Config) (token.Signer, error) {
	if cfg.JWTPrivateKeyPEM != "" && cfg.JWTPublicKeyPEM != "" {
		keyPair, err := token.LoadKeyPairFromPEM("", cfg.JWTPrivateKeyPEM, cfg.JWTPublicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("load signing key pair: %w", err)
		}
		return token.NewKeyPairSigner(keyPair), nil
	}
	if cfg.JWTSigningSecret != "" {
		return token.NewHMACSigner(cfg.JWTSigningSecret), nil
	}
	return nil, errors.New("JWT_SIGNING_SECRET or JWT_PRIVATE_KEY_PEM/JWT_PUBLIC_KEY_PEM must be set")
}

func listenAndServe(httpServer *http.Server, logger zerolog.Logger) {
	logger.Info().Str("addr", httpServer.Addr).Msg("server listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(httpServer *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
