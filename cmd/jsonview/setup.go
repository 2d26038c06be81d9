package main

import (
	"fmt"

	"github.com/aretw0/jsonview"
	"github.com/aretw0/jsonview/internal/config"
	"github.com/aretw0/jsonview/pkg/adapters/cel"
	"github.com/aretw0/jsonview/pkg/adapters/file"
	"github.com/aretw0/jsonview/pkg/adapters/memory"
	"github.com/aretw0/jsonview/pkg/adapters/redis"
	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/aretw0/jsonview/pkg/persistence/middleware"
	"github.com/aretw0/jsonview/pkg/ports"
	"github.com/aretw0/jsonview/pkg/session"
)

// playerOptions turns configuration into Player options.
func playerOptions(c config.Config, hooks domain.LifecycleHooks) ([]jsonview.Option, error) {
	opts := []jsonview.Option{
		jsonview.WithLogger(logger),
		jsonview.WithLifecycleHooks(hooks),
		jsonview.WithValidation(),
	}
	if c.DefaultCommand != "" {
		opts = append(opts, jsonview.WithDefaultCommand(c.DefaultCommand))
	}
	if len(c.Whitelist) > 0 {
		opts = append(opts, jsonview.WithWhitelist(c.Whitelist...))
	}
	if c.MaxDepth > 0 {
		opts = append(opts, jsonview.WithMaxDepth(c.MaxDepth))
	}
	if c.Evaluator == config.EvaluatorCEL {
		ev, err := cel.New()
		if err != nil {
			return nil, fmt.Errorf("cel evaluator: %w", err)
		}
		opts = append(opts, jsonview.WithEvaluator(ev))
	}
	return opts, nil
}

// sessionManager builds the configured store, wraps it with the persistence
// middleware and returns a manager over it. closeFn releases the backend.
func sessionManager(c config.Config) (mgr *session.Manager, closeFn func() error, err error) {
	var (
		store  ports.SessionStore
		locker ports.DistributedLocker
	)
	closeFn = func() error { return nil }

	switch c.Store {
	case config.StoreRedis:
		var ropts []redis.Option
		if c.SessionTTL > 0 {
			ropts = append(ropts, redis.WithTTL(c.SessionTTL))
		}
		rs := redis.New(c.RedisAddr, c.RedisPassword, c.RedisDB, ropts...)
		store = rs
		locker = redis.NewLocker(rs.Client(), redis.DefaultPrefix)
		closeFn = rs.Close
	case config.StoreFile:
		store = file.New(c.SessionDir)
	default:
		store = memory.NewStore()
	}

	var mws []middleware.Middleware
	if len(c.PIIPatterns) > 0 {
		pii, err := middleware.NewPIIMiddleware(c.PIIPatterns)
		if err != nil {
			return nil, nil, err
		}
		mws = append(mws, pii)
	}
	active, fallback, err := c.Keys()
	if err != nil {
		return nil, nil, err
	}
	if active != nil {
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		})
		if err != nil {
			return nil, nil, err
		}
		mws = append(mws, enc)
	}
	store = middleware.Chain(store, mws...)

	opts := []session.Option{session.WithLogger(logger), session.WithLockTTL(c.LockTTL)}
	if locker != nil {
		opts = append(opts, session.WithLocker(locker))
	}
	return session.NewManager(store, opts...), closeFn, nil
}
