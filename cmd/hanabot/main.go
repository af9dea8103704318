package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/DoyleJ11/hanabot/internal/auth"
	"github.com/DoyleJ11/hanabot/internal/config"
	"github.com/DoyleJ11/hanabot/internal/httpapi"
	"github.com/DoyleJ11/hanabot/internal/hub"
	"github.com/DoyleJ11/hanabot/internal/logging"
	"github.com/DoyleJ11/hanabot/internal/metrics"
	"github.com/DoyleJ11/hanabot/internal/protocol"
	"github.com/DoyleJ11/hanabot/internal/session"
	"github.com/DoyleJ11/hanabot/internal/ws"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	opts, err := parseArgs(argv)
	if err != nil {
		return err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	usernames, err := opts.botNames(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := metrics.New()
	// the hub outlives ctx so exiting bots can still deregister
	h := hub.NewHub(context.Background())

	var g errgroup.Group
	if cfg.ControlAddr != "" {
		srv := &http.Server{Addr: cfg.ControlAddr, Handler: httpapi.SetupRoutes(h, m)}
		g.Go(func() error {
			log.Info("control server listening", zap.String("addr", cfg.ControlAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				cancel()
				return fmt.Errorf("control server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	r := &runner{cfg: cfg, args: opts, usernames: usernames, hub: h, metrics: m, log: log}

	botErrs := runAll(ctx, usernames, r.runBot, log)

	h.Inbox() <- hub.ShutdownHub{}
	cancel()
	return multierr.Append(botErrs, g.Wait())
}

// runAll runs one goroutine per bot and waits for all of them. A bot that
// fails is reported but does not bring down the others.
func runAll(ctx context.Context, usernames []string, runBot func(context.Context, int, string) error, log *zap.Logger) error {
	errs := make([]error, len(usernames))
	var wg sync.WaitGroup
	for i, name := range usernames {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := runBot(ctx, i, name); err != nil {
				log.Error("bot terminated with error", zap.Int("bot", i), zap.String("username", name), zap.Error(err))
				errs[i] = fmt.Errorf("bot[%d] %s: %w", i, name, err)
				return
			}
			log.Info("bot finished", zap.Int("bot", i), zap.String("username", name))
		}()
	}
	wg.Wait()
	return multierr.Combine(errs...)
}

type runner struct {
	cfg       *config.Config
	args      args
	usernames []string
	hub       *hub.Hub
	metrics   *metrics.Metrics
	log       *zap.Logger
}

// runBot logs one bot in, connects it and runs its session until it ends.
func (r *runner) runBot(ctx context.Context, i int, name string) error {
	password, ok := r.cfg.Password(name)
	if !ok {
		return fmt.Errorf("no credentials for %q", name)
	}
	cookie, err := auth.Login(ctx, r.cfg.LoginURL, name, password)
	if err != nil {
		return err
	}
	conn, err := ws.Dial(ctx, r.cfg.ServerURL, cookie, r.log)
	if err != nil {
		return err
	}

	s := session.New(name, conn,
		session.WithLogger(r.log),
		session.WithMetrics(r.metrics),
		session.WithPassword(r.args.Password),
	)

	reply := make(chan bool, 1)
	r.hub.Inbox() <- hub.RegisterBot{Name: name, Session: s, Reply: reply}
	if !<-reply {
		_ = conn.Close()
		return fmt.Errorf("bot %q is already running", name)
	}
	defer func() { r.hub.Inbox() <- hub.RemoveBot{Name: name} }()

	if err := r.apply(ctx, i, s); err != nil {
		_ = conn.Close()
		return err
	}
	return s.Run(ctx)
}

// apply turns the command line into intents. With --create the first bot
// creates the table and the rest follow it there.
func (r *runner) apply(ctx context.Context, i int, s *session.Session) error {
	switch {
	case r.args.Create && i == 0:
		return s.CreateTable(ctx, protocol.TableCreate{Name: r.args.Table, MaxPlayers: protocol.DefaultMaxPlayers})
	case r.args.Create:
		return s.FollowUser(ctx, r.usernames[0])
	case r.args.FollowUser != "":
		return s.FollowUser(ctx, r.args.FollowUser)
	case r.args.Table != "":
		return s.JoinTable(ctx, r.args.Table)
	}
	return nil
}
