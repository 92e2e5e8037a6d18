package protoc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/semaphore"
)

//go:generate mockgen -source=connection_pool.go -destination=mock/mock_connection_pool.go -package=mock_protoc

const (
	meterNamePrefix = "fxput/protoc"

	defaultPoolSize          = 4
	defaultRefreshInterval   = 600 * time.Second
	defaultDialAttempts      = 3
	defaultDialInitialDelay  = 200 * time.Millisecond
	defaultDialMaxRetryDelay = 5 * time.Second
)

// ConnectionPool is a bounded set of interchangeable sessions with the
// remote store, shared across concurrent tasks.
type ConnectionPool interface {
	// Acquire leases a connection, blocking until one is free.
	//
	// Parameters:
	//  - ctx: the context, cancelling it aborts the wait
	//
	// Returns:
	//  - conn: the leased connection, it must be handed back with Release
	//  - err: ErrPoolExhausted if the acquire timeout elapsed, ErrPoolClosed
	//    if the pool is closed, the dial error otherwise
	Acquire(ctx context.Context) (conn Conn, err error)

	// Release hands a leased connection back to the pool.
	Release(conn Conn)

	// Size returns the maximum number of connections leased at once.
	Size() int

	// Stats returns a snapshot of the pool usage.
	Stats() PoolStats

	// Close closes the idle connections; leased ones are closed on release.
	Close()
}

// PoolStats is a snapshot of the pool usage counters.
type PoolStats struct {
	// Size is the maximum number of connections leased at once
	Size int
	// InUse is the number of connections currently leased
	InUse int
	// Peak is the highest InUse value observed since the pool was created
	Peak int
	// Idle is the number of open connections waiting to be leased
	Idle int
	// Dialed is the total number of sessions established by the pool
	Dialed int64
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithAcquireTimeout bounds the time Acquire waits for a free connection.
// Default is 0 (wait until the context is done).
func WithAcquireTimeout(timeout time.Duration) PoolOption {
	return func(p *Pool) {
		if timeout > 0 {
			p.acquireTimeout = timeout
		}
	}
}

// WithConnectionRefresh sets the age after which an idle connection is
// closed and redialed on its next lease. Default is 600 seconds.
func WithConnectionRefresh(interval time.Duration) PoolOption {
	return func(p *Pool) {
		if interval > 0 {
			p.refreshInterval = interval
		}
	}
}

// WithDialRetry sets how many times a failed dial is attempted and the
// initial delay between attempts. Default is 3 attempts, 200ms.
func WithDialRetry(attempts uint, initialDelay time.Duration) PoolOption {
	return func(p *Pool) {
		if attempts > 0 {
			p.dialAttempts = attempts
		}
		if initialDelay > 0 {
			p.dialInitialDelay = initialDelay
		}
	}
}

// Pool is the default ConnectionPool. Sessions are dialed lazily, at most
// Size of them are leased at once, and released sessions are reused.
type Pool struct {
	logger logr.Logger
	client Client
	size   int
	leases *semaphore.Weighted

	// options
	acquireTimeout   time.Duration
	refreshInterval  time.Duration
	dialAttempts     uint
	dialInitialDelay time.Duration

	mu     sync.Mutex
	idle   []*pooledConn
	inUse  int
	peak   int
	closed bool

	dialed       atomic.Int64
	registration metric.Registration
}

// pooledConn is the Conn handed out by a Pool.
type pooledConn struct {
	Conn
	pool     *Pool
	dialedAt time.Time
	leased   atomic.Bool
}

var _ ConnectionPool = (*Pool)(nil)

// NewConnectionPool creates a pool of at most size sessions dialed by client.
func NewConnectionPool(
	logger logr.Logger,
	client Client,
	size int,
	options ...PoolOption,
) (p *Pool, err error) {
	if client == nil {
		return nil, errors.New("protocol: connection pool requires a client")
	}
	if size <= 0 {
		size = defaultPoolSize
	}
	p = &Pool{
		logger:           logger.WithName("pool"),
		client:           client,
		size:             size,
		leases:           semaphore.NewWeighted(int64(size)),
		refreshInterval:  defaultRefreshInterval,
		dialAttempts:     defaultDialAttempts,
		dialInitialDelay: defaultDialInitialDelay,
	}
	for _, opt := range options {
		opt(p)
	}
	if err = p.registerMeterCallback(); err != nil {
		return nil, err
	}
	return
}

func (p *Pool) Size() int {
	return p.size
}

func (p *Pool) Acquire(ctx context.Context) (conn Conn, err error) {
	if p.isClosed() {
		return nil, ErrPoolClosed
	}

	waitCtx := ctx
	if p.acquireTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, p.acquireTimeout)
		defer cancel()
	}
	if err = p.leases.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w (waited %s)", ErrPoolExhausted, p.acquireTimeout)
		}
		return
	}

	var pc *pooledConn
	if pc, err = p.lease(ctx); err != nil {
		p.leases.Release(1)
		return
	}
	return pc, nil
}

func (p *Pool) Release(conn Conn) {
	pc, ok := conn.(*pooledConn)
	if !ok || pc.pool != p {
		p.logger.Error(ErrForeignConnection, "refusing to release connection")
		return
	}
	if !pc.leased.CompareAndSwap(true, false) {
		p.logger.V(1).Info("connection released twice", "connectionID", pc.ID())
		return
	}

	p.mu.Lock()
	p.inUse--
	closed := p.closed
	if !closed {
		p.idle = append(p.idle, pc)
	}
	p.mu.Unlock()

	if closed {
		p.closeConn(pc)
	}
	p.leases.Release(1)
}

func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStats{
		Size:   p.size,
		InUse:  p.inUse,
		Peak:   p.peak,
		Idle:   len(p.idle),
		Dialed: p.dialed.Load(),
	}
}

func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.mu.Unlock()

	for _, pc := range idle {
		p.closeConn(pc)
	}
	if p.registration != nil {
		_ = p.registration.Unregister()
	}
	p.logger.Info("closed connection pool", "dialed", p.dialed.Load())
}

// lease picks an idle connection or dials a new one. The caller holds a
// lease on the semaphore.
func (p *Pool) lease(ctx context.Context) (pc *pooledConn, err error) {
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return nil, ErrPoolClosed
		}
		if n := len(p.idle); n > 0 {
			pc = p.idle[n-1]
			p.idle = p.idle[:n-1]
		}
		p.mu.Unlock()

		if pc == nil {
			break
		}
		if time.Since(pc.dialedAt) < p.refreshInterval {
			p.markLeased(pc)
			return pc, nil
		}
		p.logger.V(1).Info("refreshing stale connection",
			"connectionID", pc.ID(), "age", time.Since(pc.dialedAt).String())
		p.closeConn(pc)
		pc = nil
	}

	var conn Conn
	if err = retry.Do(
		func() (dialErr error) {
			conn, dialErr = p.client.Dial(ctx, p.logger)
			return
		},
		retry.Context(ctx),
		retry.Attempts(p.dialAttempts),
		retry.Delay(p.dialInitialDelay),
		retry.MaxDelay(defaultDialMaxRetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Info("retrying connection dial",
				"connectionID", p.client.GetConnectionID(),
				"errorMessage", err.Error(),
				"retryAttempts", n+1)
		}),
	); err != nil {
		return nil, fmt.Errorf("dial connection: %w", err)
	}
	p.dialed.Add(1)
	pc = &pooledConn{Conn: conn, pool: p, dialedAt: time.Now()}
	p.markLeased(pc)
	p.logger.V(1).Info("dialed connection", "connectionID", conn.ID())
	return pc, nil
}

func (p *Pool) markLeased(pc *pooledConn) {
	pc.leased.Store(true)
	p.mu.Lock()
	p.inUse++
	p.peak = max(p.peak, p.inUse)
	p.mu.Unlock()
}

func (p *Pool) closeConn(pc *pooledConn) {
	if err := pc.Conn.Close(); err != nil {
		p.logger.Error(err, "failed to close connection", "connectionID", pc.ID())
	}
}

func (p *Pool) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

func (p *Pool) registerMeterCallback() (err error) {
	meter := otel.GetMeterProvider().Meter(fmt.Sprintf("%s/pool", meterNamePrefix))
	var inUse, peak metric.Int64ObservableGauge
	if inUse, err = meter.Int64ObservableGauge("connections_in_use"); err != nil {
		return
	}
	if peak, err = meter.Int64ObservableGauge("connections_peak"); err != nil {
		return
	}
	var dialed metric.Int64ObservableCounter
	if dialed, err = meter.Int64ObservableCounter("connections_dialed"); err != nil {
		return
	}

	p.registration, err = meter.RegisterCallback(
		func(ctx context.Context, o metric.Observer) (err error) {
			stats := p.Stats()
			o.ObserveInt64(inUse, int64(stats.InUse))
			o.ObserveInt64(peak, int64(stats.Peak))
			o.ObserveInt64(dialed, stats.Dialed)
			return
		},
		inUse, peak, dialed,
	)
	return
}

// WithConnection leases a connection from pool for the duration of fn.
// The connection is released on every exit path, panics included.
func WithConnection(ctx context.Context, pool ConnectionPool, fn func(conn Conn) error) (err error) {
	var conn Conn
	if conn, err = pool.Acquire(ctx); err != nil {
		return
	}
	defer pool.Release(conn)
	return fn(conn)
}
