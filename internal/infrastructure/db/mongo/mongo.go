package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// DB bundles the client with the selected database so callers can ping and
// disconnect through one handle.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB and pings the primary before returning.
func Connect(ctx context.Context, cfg Config) (*DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &DB{client: client, db: client.Database(cfg.Database)}, nil
}

func (d *DB) Database() *mongo.Database {
	return d.db
}

func (d *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return d.client.Ping(ctx, readpref.Primary())
}

func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}
