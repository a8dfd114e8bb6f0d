package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"github.com/Nixie-Tech-LLC/dqdash/internal/cache"
	"github.com/Nixie-Tech-LLC/dqdash/internal/config"
	"github.com/Nixie-Tech-LLC/dqdash/internal/db"
	"github.com/Nixie-Tech-LLC/dqdash/internal/holiday"
	"github.com/Nixie-Tech-LLC/dqdash/internal/logger"
	"github.com/Nixie-Tech-LLC/dqdash/internal/notify"
	"github.com/Nixie-Tech-LLC/dqdash/internal/schedule"
	"github.com/Nixie-Tech-LLC/dqdash/internal/service"
)

// setup loads the configuration and installs the logger. Both live outside
// the fx graph since everything inside it logs.
func setup() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Configure(cfg)
	return cfg, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "start the HTTP API",
		Action: func(c *cli.Context) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			app := fx.New(
				fx.WithLogger(logger.Fx),
				fx.Supply(cfg),
				fx.Provide(
					provideDatabase,
					db.NewStore,
					provideCache,
					provideNotifier,
					provideCalendar,
					provideSchedules,
					NewRouter,
				),
				fx.Invoke(runServer),
				fx.StopTimeout(cfg.ShutdownTimeout+time.Second),
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func runServer(lc fx.Lifecycle, cfg *config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Address)
			if err != nil {
				return err
			}
			log.Info().Str("address", cfg.Address).Msg("listening")

			go func() {
				if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					log.Error().Err(err).Msg("server terminated unexpectedly")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply database migrations and exit",
		Action: func(c *cli.Context) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			conn, err := openDatabase(c.Context, cfg)
			if err != nil {
				return err
			}
			defer conn.Close()
			log.Info().Str("driver", cfg.DatabaseDriver).Msg("migrations applied")
			return nil
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "evaluate one schedule and print whether it is active",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "id", Usage: "schedule id", Required: true},
			&cli.StringFlag{Name: "at", Usage: "instant to evaluate at, RFC3339 (default: now)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			var at time.Time
			if s := c.String("at"); s != "" {
				if at, err = time.Parse(time.RFC3339, s); err != nil {
					return fmt.Errorf("invalid --at: %w", err)
				}
			}

			conn, err := openDatabase(c.Context, cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			cal, err := holiday.Load(cfg.BankHolidaysPath)
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			svc := service.NewSchedules(db.NewStore(conn), cal, cache.NewMemory(), notify.Nop{}, service.Options{Location: loc})

			st, err := svc.Status(c.Context, c.Int("id"), at)
			if err != nil {
				return err
			}

			state := "inactive"
			if st.Active {
				state = "active"
			}
			fmt.Fprintf(c.App.Writer, "schedule %d is %s on %s at %02d:00 (%s)\n",
				st.ScheduleID, state, schedule.FormatDate(st.LocalDate), st.LocalHour, st.Timezone)
			if st.NextActiveAt != nil && !st.Active {
				fmt.Fprintf(c.App.Writer, "next active at %s\n", st.NextActiveAt.In(loc).Format(time.RFC3339))
			}
			return nil
		},
	}
}
