package client

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/multierr"

	"gather/pkg/logger"
)

// Client holds the shared connections a service opens at startup.
type Client struct {
	Mongo *mongo.Client

	closers []func(context.Context) error
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB", "error", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB", "error", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = client
}

// OnShutdown registers a close hook run by GracefulShutdown, in reverse order.
func (c *Client) OnShutdown(fn func(context.Context) error) {
	c.closers = append(c.closers, fn)
}

func (c *Client) GracefulShutdown(log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, c.closers[i](ctx))
	}
	for _, err := range multierr.Errors(errs) {
		log.Error("Failed to close client", "error", err)
	}

	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect from MongoDB", "error", err)
		} else {
			log.Info("Disconnected from MongoDB")
		}
	}
	_ = log.Sync()
}
