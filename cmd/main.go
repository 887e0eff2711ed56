package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/viper"

	"github.com/sreecharan-desu/echo.Ink/internal/handlers"
	"github.com/sreecharan-desu/echo.Ink/internal/logger"
	"github.com/sreecharan-desu/echo.Ink/internal/repository"
	"github.com/sreecharan-desu/echo.Ink/internal/repository/db"
	"github.com/sreecharan-desu/echo.Ink/internal/server"
	"github.com/sreecharan-desu/echo.Ink/internal/service"
)

const defaultTokenTTL = 72 * time.Hour

func main() {
	// load config.yml
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	// init logger with configured level
	log := logger.Get(viper.GetString("log.level"))

	// open DB
	conn, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	authCfg, err := loadAuthConfig()
	if err != nil {
		log.Fatalw("invalid auth config", "err", err)
	}

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, authCfg)
	apiHandler := handlers.NewHandler(services, log)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	viper.SetEnvPrefix("echoink")
	viper.AutomaticEnv() // ECHOINK_PORT etc. override the file
	return viper.ReadInConfig()
}

// loadAuthConfig reads the signing material. The key has no default on
// purpose; a process without one must not issue tokens.
func loadAuthConfig() (service.AuthConfig, error) {
	key := viper.GetString("auth.signing_key")
	if key == "" {
		return service.AuthConfig{}, errors.New("auth.signing_key is not set")
	}
	ttl := viper.GetDuration("auth.token_ttl")
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return service.AuthConfig{SigningKey: key, TokenTTL: ttl}, nil
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "echoink.db")
		dbPath = "echoink.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
