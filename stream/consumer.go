package stream

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Ender-Wang/Swifka-sub000/config"
	"github.com/Ender-Wang/Swifka-sub000/display"
	"github.com/Ender-Wang/Swifka-sub000/errors"
	"github.com/Ender-Wang/Swifka-sub000/metric"
	"github.com/Ender-Wang/Swifka-sub000/pkg/buffer"
	"github.com/Ender-Wang/Swifka-sub000/pkg/retry"
)

// Message is one decoded stream message kept in the history ring.
type Message struct {
	Subject  string
	Seq      uint64
	Received time.Time
	Size     int
	Flat     string
	Pretty   string

	// DecodeErr holds the decode failure text, empty on success. The
	// Flat/Pretty fields carry a placeholder in that case.
	DecodeErr string
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithLogger replaces the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) { c.logger = logger }
}

// WithMetrics wires the consumer to the shared decode metrics.
func WithMetrics(m *metric.Metrics) Option {
	return func(c *Consumer) { c.metrics = m }
}

// WithOnMessage installs a callback invoked for every processed message,
// decode failures included. It runs on the pull goroutine, so it must
// not block.
func WithOnMessage(fn func(Message)) Option {
	return func(c *Consumer) { c.onMessage = fn }
}

// Consumer pulls raw payloads from a JetStream stream, runs them through
// a display pipeline, and keeps a bounded history of rendered messages.
// The decode engine itself does no I/O; this is the boundary that feeds
// it.
type Consumer struct {
	cfg      config.StreamConfig
	format   string
	pipeline display.Pipeline

	id        string
	logger    *slog.Logger
	metrics   *metric.Metrics
	history   *buffer.Ring[Message]
	errLimit  *rate.Limiter
	onMessage func(Message)

	mu       sync.Mutex
	nc       *nats.Conn
	consumer jetstream.Consumer
}

// New creates a consumer. format labels decode metrics and must be one
// of the config.Format* constants.
func New(cfg config.StreamConfig, format string, pipeline display.Pipeline, opts ...Option) (*Consumer, error) {
	if cfg.Stream == "" || cfg.Subject == "" {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: stream and subject are required", errors.ErrMissingConfig),
			"stream.Consumer", "New", "check stream settings")
	}
	if pipeline == nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: nil pipeline", errors.ErrMissingConfig),
			"stream.Consumer", "New", "check pipeline")
	}

	c := &Consumer{
		cfg:      cfg,
		format:   format,
		pipeline: pipeline,
		id:       uuid.NewString(),
		logger:   slog.Default(),
		history:  buffer.NewRing[Message](cfg.HistorySize),
		// Decode-error logs are capped so a poisoned stream cannot flood
		// the log; every error still counts in metrics and history.
		errLimit: rate.NewLimiter(rate.Every(time.Second), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ID returns the consumer's unique identity, used as the NATS client
// name.
func (c *Consumer) ID() string {
	return c.id
}

// Connect establishes the NATS connection and the pull consumer,
// retrying transient failures per the configured backoff.
func (c *Consumer) Connect(ctx context.Context) error {
	retryCfg := c.cfg.Connect.RetryConfig().ToRetryConfig()

	err := retry.Do(ctx, retryCfg, func() error {
		nc, err := nats.Connect(c.cfg.URL,
			nats.Name("wirelens-"+c.id),
			nats.MaxReconnects(-1),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				if c.metrics != nil {
					c.metrics.ConsumerReconnects.Inc()
					c.metrics.ConsumerConnected.Set(1)
				}
				c.logger.Info("reconnected to NATS", "url", c.cfg.URL)
			}),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				if c.metrics != nil {
					c.metrics.ConsumerConnected.Set(0)
				}
				c.logger.Warn("disconnected from NATS", "error", err)
			}),
		)
		if err != nil {
			c.logger.Warn("connect attempt failed", "url", c.cfg.URL, "error", err)
			return err
		}

		js, err := jetstream.New(nc)
		if err != nil {
			nc.Close()
			return err
		}

		consumer, err := js.CreateOrUpdateConsumer(ctx, c.cfg.Stream, jetstream.ConsumerConfig{
			Durable:       c.cfg.Durable,
			FilterSubject: c.cfg.Subject,
			AckPolicy:     jetstream.AckExplicitPolicy,
		})
		if err != nil {
			nc.Close()
			return err
		}

		c.mu.Lock()
		c.nc = nc
		c.consumer = consumer
		c.mu.Unlock()
		return nil
	})
	if err != nil {
		return errors.WrapTransient(err, "stream.Consumer", "Connect", "establish connection")
	}

	if c.metrics != nil {
		c.metrics.ConsumerConnected.Set(1)
	}
	c.logger.Info("consumer connected",
		"id", c.id,
		"url", c.cfg.URL,
		"stream", c.cfg.Stream,
		"subject", c.cfg.Subject)
	return nil
}

// Run pulls and processes messages until ctx is cancelled. Connect must
// have succeeded first.
func (c *Consumer) Run(ctx context.Context) error {
	c.mu.Lock()
	consumer := c.consumer
	c.mu.Unlock()
	if consumer == nil {
		return errors.WrapInvalid(
			fmt.Errorf("%w: Run before Connect", errors.ErrNoConnection),
			"stream.Consumer", "Run", "check connection state")
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return c.pullLoop(ctx, consumer)
	})
	return group.Wait()
}

func (c *Consumer) pullLoop(ctx context.Context, consumer jetstream.Consumer) error {
	pullTimeout := c.cfg.PullTimeout.Std()
	if pullTimeout <= 0 {
		pullTimeout = 5 * time.Second
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		batch, err := consumer.Fetch(c.cfg.BatchSize, jetstream.FetchMaxWait(pullTimeout))
		if err != nil {
			// An empty pull window is the steady state on a quiet subject.
			if err == nats.ErrTimeout || err == context.DeadlineExceeded {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Warn("fetch failed", "error", err)
			continue
		}

		for msg := range batch.Messages() {
			c.process(msg)
			if err := msg.Ack(); err != nil {
				c.logger.Warn("ack failed", "subject", msg.Subject(), "error", err)
			}
		}
		if err := batch.Error(); err != nil && err != nats.ErrTimeout {
			c.logger.Warn("batch ended with error", "error", err)
		}
	}
}

func (c *Consumer) process(msg jetstream.Msg) {
	if c.metrics != nil {
		c.metrics.MessagesReceived.Inc()
	}

	payload := msg.Data()
	start := time.Now()
	rendering, decodeErr := c.pipeline(payload)
	elapsed := time.Since(start)

	if c.metrics != nil {
		c.metrics.RecordDecode(c.format, len(payload), elapsed, decodeErr)
	}

	entry := Message{
		Subject:  msg.Subject(),
		Received: time.Now(),
		Size:     len(payload),
		Flat:     rendering.Flat,
		Pretty:   rendering.Pretty,
	}
	if meta, err := msg.Metadata(); err == nil {
		entry.Seq = meta.Sequence.Stream
	}
	if decodeErr != nil {
		entry.DecodeErr = decodeErr.Error()
	}
	c.history.Push(entry)
	if c.onMessage != nil {
		c.onMessage(entry)
	}

	if decodeErr != nil {
		if c.errLimit.Allow() {
			c.logger.Warn("decode failed",
				"subject", entry.Subject,
				"seq", entry.Seq,
				"bytes", entry.Size,
				"error", decodeErr)
		}
		return
	}
	c.logger.Debug("decoded message",
		"subject", entry.Subject,
		"seq", entry.Seq,
		"bytes", entry.Size,
		"preview", entry.Flat)
}

// History returns the recent decoded messages, oldest first.
func (c *Consumer) History() []Message {
	return c.history.Snapshot()
}

// Close drains the NATS connection.
func (c *Consumer) Close() error {
	c.mu.Lock()
	nc := c.nc
	c.nc = nil
	c.consumer = nil
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.ConsumerConnected.Set(0)
	}
	if nc == nil {
		return nil
	}
	if err := nc.Drain(); err != nil {
		nc.Close()
		return errors.WrapTransient(err, "stream.Consumer", "Close", "drain connection")
	}
	return nil
}
