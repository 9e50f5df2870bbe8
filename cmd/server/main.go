// Command server runs the codeu-chat server: it replays the
// transaction log, then serves the binary wire protocol and the
// additive admin HTTP/gRPC surfaces on one TCP listener multiplexed
// by cmux.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/soheilhy/cmux"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	logger_lib "github.com/s21platform/logger-lib"
	"github.com/s21platform/metrics-lib/pkg"

	"github.com/s21platform/codeu-chat/internal/adminhttp"
	"github.com/s21platform/codeu-chat/internal/admingrpc"
	"github.com/s21platform/codeu-chat/internal/config"
	"github.com/s21platform/codeu-chat/internal/controller"
	"github.com/s21platform/codeu-chat/internal/dispatcher"
	"github.com/s21platform/codeu-chat/internal/identity"
	"github.com/s21platform/codeu-chat/internal/journal"
	"github.com/s21platform/codeu-chat/internal/model"
	"github.com/s21platform/codeu-chat/internal/relay"
	"github.com/s21platform/codeu-chat/internal/reporting"
	"github.com/s21platform/codeu-chat/internal/timeline"
	"github.com/s21platform/codeu-chat/internal/view"
)

const reportingInterval = 30 * time.Second

func main() {
	cfg := config.MustLoad()
	logger := logger_lib.New(cfg.Logger.Host, cfg.Logger.Port, cfg.Service.Name, cfg.Platform.Env)

	metrics, err := pkg.NewMetrics(cfg.Metrics.Host, cfg.Metrics.Port, cfg.Service.Name, cfg.Platform.Env)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to connect graphite: %v", err))
	}

	store := model.New()
	ids := identity.NewGenerator(cfg.Service.GeneratorID)

	journalPath := filepath.Join(cfg.Service.JournalDir, "transaction_log.txt")
	if err := os.MkdirAll(cfg.Service.JournalDir, 0o755); err != nil {
		logger.Error(fmt.Sprintf("failed to create journal dir: %v", err))
		os.Exit(1)
	}

	replayJournal(journalPath, store, ids, logger)

	journalWriter, err := journal.OpenWriter(journalPath)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to open journal for writing: %v", err))
		os.Exit(1)
	}
	defer journalWriter.Close()

	now := func() model.Time { return model.Time(time.Now().UnixMilli()) }
	ctrl := controller.New(store, ids, journalWriter, now)
	// The server's build identity carries this generator's id but
	// sequence 0: it must never consume a sequence number from the
	// same counter that mints live User/Conversation/Message ids, or
	// the first entity created would shift from [g.1] to [g.2].
	v := view.New(store, identity.ID{Generator: cfg.Service.GeneratorID})

	tl := timeline.New()
	go tl.Run()
	defer tl.Close()

	var pump *relay.Pump
	if cfg.Kafka.Host != "" {
		ctx := context.Background()
		kafkaClient, err := relay.NewKafkaClient(ctx, cfg.Kafka.Host, cfg.Kafka.Port, cfg.Kafka.InboundTopic, cfg.Kafka.OutboundTopic, cfg.Kafka.ConsumerGroupID, metrics)
		if err != nil {
			logger.Error(fmt.Sprintf("failed to start relay: %v", err))
		} else {
			pump = relay.New(kafkaClient, store, ctrl, tl, identity.ID{Generator: cfg.Service.GeneratorID}, []byte(cfg.Relay.Secret), logger)
			pump.Start()
		}
	}

	var pushRelay dispatcher.Relay
	if pump != nil {
		pushRelay = pump
	}
	d := dispatcher.New(ctrl, v, pushRelay, logger)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Service.Port))
	if err != nil {
		logger.Error(fmt.Sprintf("failed to start TCP listener: %v", err))
		os.Exit(1)
	}

	m := cmux.New(listener)
	grpcListener := m.MatchWithWriters(cmux.HTTP2MatchHeaderFieldSendSettings("content-type", "application/grpc"))
	var httpListener net.Listener
	if cfg.AdminHTTP.Enabled {
		httpListener = m.Match(cmux.HTTP1Fast())
	}
	protoListener := m.Match(cmux.Any())

	grpcServer := grpc.NewServer()
	admingrpc.Register(grpcServer, admingrpc.NewServer(v))

	httpServer := &http.Server{Handler: adminhttp.NewRouter(v)}

	var reportMirror *reporting.Mirror
	if cfg.Postgres.Host != "" {
		reportMirror, err = reporting.New(reporting.Config{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		}, v, logger)
		if err != nil {
			logger.Error(fmt.Sprintf("failed to start reporting mirror: %v", err))
		} else {
			defer reportMirror.Close()
			if err := reportMirror.EnsureSchema(context.Background()); err != nil {
				logger.Error(fmt.Sprintf("failed to prepare reporting schema: %v", err))
			}
		}
	}

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("admin gRPC server error: %w", err)
		}
		return nil
	})

	if cfg.AdminHTTP.Enabled {
		g.Go(func() error {
			if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("admin HTTP server error: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		return acceptProtocolConnections(protoListener, tl, d, logger)
	})

	if reportMirror != nil {
		tick := make(chan struct{})
		g.Go(func() error {
			go func() {
				ticker := time.NewTicker(reportingInterval)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						close(tick)
						return
					case <-ticker.C:
						tick <- struct{}{}
					}
				}
			}()
			reportMirror.Run(ctx, tick)
			return nil
		})
	}

	g.Go(func() error {
		if err := m.Serve(); err != nil {
			return fmt.Errorf("cannot start service: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("server error: %v", err))
	}
}

func replayJournal(path string, store *model.Store, ids *identity.Generator, logger *logger_lib.Logger) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	if err != nil {
		logger.Error(fmt.Sprintf("failed to open journal for replay: %v", err))
		return
	}
	defer f.Close()

	replayCtrl := controller.New(store, ids, journal.NewWriter(discardWriter{}), func() model.Time { return 0 })
	err = journal.Replay(f, replayCtrl, func(format string, args ...interface{}) {
		logger.Warn(fmt.Sprintf(format, args...))
	})
	if err != nil {
		logger.Error(fmt.Sprintf("journal replay failed: %v", err))
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// acceptProtocolConnections is the external producer of Connection
// values: every accepted socket becomes one Timeline task handling
// exactly one request/response pair before closing.
func acceptProtocolConnections(l net.Listener, tl *timeline.Timeline, d *dispatcher.Dispatcher, logger *logger_lib.Logger) error {
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || errors.Is(err, cmux.ErrListenerClosed) {
				return nil
			}
			logger.Error(fmt.Sprintf("accept failed: %v", err))
			continue
		}
		tl.ScheduleNow(func() {
			defer conn.Close()
			d.Handle(conn)
		})
	}
}
