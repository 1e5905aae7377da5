package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medibook/medibook/internal/config"
	"github.com/medibook/medibook/internal/domain/identity"
	"github.com/medibook/medibook/internal/domain/rating"
	"github.com/medibook/medibook/internal/domain/scheduling"
	"github.com/medibook/medibook/internal/domain/triage"
	"github.com/medibook/medibook/internal/platform/apperr"
	"github.com/medibook/medibook/internal/platform/auth"
	"github.com/medibook/medibook/internal/platform/db"
	"github.com/medibook/medibook/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "medibook-server",
		Short: "Clinic appointment booking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

// doctorCmd creates doctor accounts. There is no self-service doctor signup;
// the clinic registers its doctors from the command line.
func doctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Manage doctor accounts",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a doctor account",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			email, _ := flags.GetString("email")
			phone, _ := flags.GetString("phone")
			password, _ := flags.GetString("password")
			name, _ := flags.GetString("name")
			specialization, _ := flags.GetString("specialization")
			experience, _ := flags.GetString("experience")
			qualifications, _ := flags.GetString("qualifications")
			description, _ := flags.GetString("description")
			clinicName, _ := flags.GetString("clinic-name")
			clinicAddress, _ := flags.GetString("clinic-address")
			clinicPhone, _ := flags.GetString("clinic-phone")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			issuer := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
			users := identity.NewUserRepoPG(pool)
			svc := identity.NewService(users, issuer, nil)

			req := identity.RegisterPatientRequest{
				Password: password,
				Name:     name,
			}
			if email != "" {
				req.Email = &email
			}
			if phone != "" {
				req.PhoneNumber = &phone
			}
			profile, err := svc.RegisterDoctor(ctx, req, identity.DoctorProfile{
				Specialization: specialization,
				Experience:     experience,
				Qualifications: qualifications,
				Description:    description,
				Clinic: identity.ClinicInfo{
					Name:        clinicName,
					Address:     clinicAddress,
					PhoneNumber: clinicPhone,
				},
			})
			if err != nil {
				return err
			}

			fmt.Printf("Created doctor %s (%s)\n", profile.Name, profile.ID)
			return nil
		},
	}
	createCmd.Flags().String("email", "", "Doctor login email")
	createCmd.Flags().String("phone", "", "Doctor login phone number")
	createCmd.Flags().String("password", "", "Initial password")
	createCmd.Flags().String("name", "", "Display name")
	createCmd.Flags().String("specialization", "", "Medical specialization")
	createCmd.Flags().String("experience", "", "Years of experience")
	createCmd.Flags().String("qualifications", "", "Qualifications")
	createCmd.Flags().String("description", "", "Profile description")
	createCmd.Flags().String("clinic-name", "", "Clinic name")
	createCmd.Flags().String("clinic-address", "", "Clinic address")
	createCmd.Flags().String("clinic-phone", "", "Clinic phone number")

	cmd.AddCommand(createCmd)
	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Repositories
	users := identity.NewUserRepoPG(pool)
	calendars := scheduling.NewCalendarRepoPG(pool)
	appointments := scheduling.NewAppointmentRepoPG(pool)
	ratings := rating.NewRepoPG(pool)

	// Services. The user repo doubles as the doctor directory for scheduling
	// and rating, which keeps the identity and scheduling services free of a
	// mutual dependency.
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	schedulingSvc := scheduling.NewService(calendars, appointments, users)
	identitySvc := identity.NewService(users, issuer, schedulingSvc)
	ratingSvc := rating.NewService(ratings, appointments, users)

	lookup := triage.NewLookup(cfg.SymptomsFile, cfg.SpecializationMapFile)
	if err := lookup.Reload(); err != nil {
		logger.Fatal().Err(err).Msg("failed to load triage lookup tables")
	}
	classifier := triage.NewHTTPClassifier(cfg.ClassifierURL, logger)
	triageSvc := triage.NewService(classifier, lookup, identitySvc)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	e.Use(middleware.RateLimit(rateLimitCfg))

	// Health check
	e.GET("/health", db.HealthHandler(pool))

	// Route groups: public endpoints need no token, api endpoints do.
	public := e.Group("/api")
	api := e.Group("/api", auth.Middleware(issuer))

	identity.NewHandler(identitySvc).RegisterRoutes(public, api)
	scheduling.NewHandler(schedulingSvc).RegisterRoutes(public, api)
	rating.NewHandler(ratingSvc).RegisterRoutes(public, api)
	triage.NewHandler(triageSvc).RegisterRoutes(public, api)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
