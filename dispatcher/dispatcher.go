// Package dispatcher serves the single endpoint through which clients
// request AI generated design advice. Each request is validated, turned into
// a prompt, sent once to the AI gateway, and the model output is normalized
// into a JSON envelope. Completed requests are published as events off the
// hot path via the worker pool.
package dispatcher

import (
	"errors"
	"fmt"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/gruhabuddy/gruha/dispatcher/header"
	"github.com/gruhabuddy/gruha/dispatcher/worker"
	"github.com/gruhabuddy/gruha/pkg/design"
	"github.com/gruhabuddy/gruha/pkg/eventstream/nop"
	"github.com/gruhabuddy/gruha/pkg/gateway"
	"github.com/gruhabuddy/gruha/pkg/normalize"
)

// Routes served by the dispatcher.
const (
	RouteRoot     = "/"
	RouteFunction = "/room-design-ai"
	RouteChat     = "/chat"
)

// Dispatcher is the AI request dispatcher server.
type Dispatcher struct {
	config        Config
	gateway       *gateway.Client
	checker       *normalize.Checker
	workerPool    *worker.Pool
	logger        *zap.Logger
	server        *fiber.App
	headerHandler *header.Handler
}

// New creates a new Dispatcher that answers through the given gateway client.
func New(config Config, gw *gateway.Client, logger *zap.Logger) (*Dispatcher, error) {
	if gw == nil {
		return nil, errors.New("gateway client is required")
	}

	checker, err := normalize.NewChecker()
	if err != nil {
		return nil, fmt.Errorf("could not load response schemas: %w", err)
	}

	publisher := config.Publisher
	if publisher == nil {
		publisher = nop.NewPublisher()
	}

	wp, err := worker.NewPool(&worker.Config{
		Publisher:  publisher,
		NumWorkers: config.EventWorkers,
		QueueSize:  config.EventQueueSize,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create worker pool: %w", err)
	}

	d := &Dispatcher{
		config:        config,
		gateway:       gw,
		checker:       checker,
		workerPool:    wp,
		logger:        logger,
		headerHandler: header.NewHandler(),
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		ErrorHandler:          d.handleError,
	})

	app.Use(recover.New())
	app.Use(d.headerHandler.Middleware())
	app.Use(compress.New(compress.Config{
		// Chat replies are streamed and must not be buffered.
		Next: func(c *fiber.Ctx) bool { return c.Path() == RouteChat },
	}))

	app.Post(RouteRoot, d.handleDispatch)
	app.Post(RouteFunction, d.handleDispatch)
	app.Post(RouteChat, d.handleChat)
	app.All(RouteRoot, d.handleMethodNotAllowed)
	app.All(RouteFunction, d.handleMethodNotAllowed)
	app.All(RouteChat, d.handleMethodNotAllowed)

	d.server = app
	return d, nil
}

// Run starts the dispatcher server on the configured listening address
func (d *Dispatcher) Run() error {
	d.logger.Info("starting dispatcher server",
		zap.String("listen", d.config.ListenAddr),
		zap.String("provider", d.gateway.Provider().Name()),
		zap.String("model", d.gateway.Model()),
	)

	return d.server.Listen(d.config.ListenAddr)
}

// RunWithListener starts the dispatcher server using the provided listener.
func (d *Dispatcher) RunWithListener(listener net.Listener) error {
	d.logger.Info("starting dispatcher server",
		zap.String("listen", listener.Addr().String()),
		zap.String("provider", d.gateway.Provider().Name()),
	)

	return d.server.Listener(listener)
}

// Close gracefully shuts down the server and waits for pending events to drain
func (d *Dispatcher) Close() error {
	err := d.server.Shutdown()
	d.workerPool.Close()
	return err
}

// handleDispatch answers a design action request.
func (d *Dispatcher) handleDispatch(c *fiber.Ctx) error {
	req, err := design.ParseRequest(c.Body())
	if err != nil {
		t := d.newTrace(c.Path())
		out := failure(fiber.StatusBadRequest, MsgInvalidBody)
		d.finish(t, out)
		return d.respond(c, out)
	}

	out := d.dispatch(c.UserContext(), req, c.Path())
	return d.respond(c, out)
}

func (d *Dispatcher) handleMethodNotAllowed(c *fiber.Ctx) error {
	return d.respond(c, failure(fiber.StatusMethodNotAllowed, MsgMethodNotAllowed))
}

// handleError turns any error escaping a handler, including recovered
// panics and unmatched routes, into an error envelope.
func (d *Dispatcher) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		d.logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	d.headerHandler.Apply(c)
	return d.respond(c, failure(code, message))
}

func (d *Dispatcher) respond(c *fiber.Ctx, out design.Outcome) error {
	return c.Status(out.Status).JSON(out.Envelope)
}

func failure(status int, message string) design.Outcome {
	return design.Outcome{Status: status, Envelope: design.Failure(message)}
}
