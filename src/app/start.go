package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Blackdeer1524/hashkit/src"
	"github.com/Blackdeer1524/hashkit/src/delivery"
	"github.com/Blackdeer1524/hashkit/src/hash"
	"github.com/Blackdeer1524/hashkit/src/pkg/utils"
	"github.com/Blackdeer1524/hashkit/src/rand"
)

const CloseTimeout = 15 * time.Second

type APIEntrypoint struct {
	Env envVars

	s   *delivery.Server
	log src.Logger
}

func (e *APIEntrypoint) Init(_ context.Context) error {
	e.Env = mustLoadEnv()

	var zlog *zap.Logger
	if e.Env.Environment == EnvDev {
		zlog = utils.Must(zap.NewDevelopment())
	} else {
		zlog = utils.Must(zap.NewProduction())
	}

	log := zlog.Sugar()
	e.log = log

	gen := rand.New(rand.WithLogger(zlog.Named("rand")))
	handler := &delivery.Handler{
		Hasher:    hash.New(e.Env.Config),
		Generator: gen,
		Logger:    log,
		Seed:      e.Env.Seed,
	}
	router := delivery.NewRouter(handler, delivery.NewMetrics(gen))

	e.s = delivery.NewServer(e.Env.ServerHost, e.Env.ServerPort, router, log)

	if e.Env.UseStableHashForRiskyHash {
		log.Infof("risky hash requests are served by the stable hash")
	}

	return nil
}

func (e *APIEntrypoint) Run(_ context.Context) error {
	return e.s.Run()
}

func (e *APIEntrypoint) Close() (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), CloseTimeout)
	defer cancel()

	if e.s != nil {
		err = e.s.Close(ctx)
	}

	if e.log != nil {
		if err != nil {
			e.log.Errorf("failed to close server: %v", err)
		}

		logErr := e.log.Sync()
		if logErr != nil && err != nil {
			err = fmt.Errorf("%w, %w", err, logErr)
		} else if logErr != nil {
			err = logErr
		}
	}

	return
}

// Serve initializes the entrypoint and runs it until ctx is done or the
// server fails, then closes it.
func (e *APIEntrypoint) Serve(ctx context.Context) error {
	if err := e.Init(ctx); err != nil {
		return fmt.Errorf("failed to init entrypoint: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Run(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	if err := e.Close(); err != nil {
		return errors.Join(runErr, err)
	}

	return runErr
}
