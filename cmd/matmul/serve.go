package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/api"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		workers     int64
		maxElements int64
		storeSize   int64
		bodyLimit   int64
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the multiplication REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "timeout for reading a whole request, headers and body",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			workersFlag(&workers),
			&cli.Int64Flag{
				Name:        "max-elements",
				Usage:       "largest operand or product accepted, in elements (0 = unlimited)",
				Value:       1 << 20,
				Destination: &maxElements,
			},
			&cli.Int64Flag{
				Name:        "body-limit",
				Usage:       "largest request body accepted, in bytes (0 = unlimited)",
				Value:       64 << 20,
				Destination: &bodyLimit,
			},
			&cli.Int64Flag{
				Name:        "store-size",
				Usage:       "number of recent products kept for GET /v1/products/:id",
				Value:       64,
				Destination: &storeSize,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, cfg, &addr, &workers, &maxElements)

			store := api.NewProductStore(int(storeSize))
			service := api.NewMultiplyService(api.ServiceConfig{
				MaxElements: int(maxElements),
				Workers:     int(workers),
			})
			server := api.NewServer(store, service, log)
			e := newEcho(server, bodyLimit)
			log.Info("starting server", "address", addr, "workers", workers, "max_elements", maxElements)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					applyTimeouts(srv, readTimeout)
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}

func newEcho(server *api.Server, bodyLimit int64) *echo.Echo {
	e := echo.New()
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	if bodyLimit > 0 {
		e.Use(middleware.BodyLimit(bodyLimit))
	}
	server.Register(e)
	return e
}

func applyTimeouts(srv *http.Server, readTimeout time.Duration) {
	srv.ReadHeaderTimeout = readTimeout
	srv.ReadTimeout = readTimeout
}
