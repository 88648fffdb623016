package database

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// State is the connectivity status of a Store.  The numeric values follow
// the ready-state codes used by common MongoDB ODMs.
type State int32

const (
	Disconnected  State = 0
	Connected     State = 1
	Connecting    State = 2
	Disconnecting State = 3
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	case Connecting:
		return "connecting"
	case Disconnecting:
		return "disconnecting"
	}
	return "unknown"
}

// ErrClosed is returned by Ping after Close.
var ErrClosed = errors.New("database store closed")

// Store owns the process-wide MongoDB client.  It is created once in main,
// injected into repositories and closed on shutdown.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	state  atomic.Int32
	closed atomic.Bool
}

// Open connects to MongoDB and verifies the connection.  A failed initial
// ping is not fatal: the store is returned in the Disconnected state and the
// driver keeps trying in the background, so the health probe can report it.
func Open(ctx context.Context, uri, name string) (*Store, error) {
	s := &Store{}
	s.state.Store(int32(Connecting))

	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(25).
		SetMaxConnIdleTime(30 * time.Minute).
		SetServerSelectionTimeout(5 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		s.state.Store(int32(Disconnected))
		return nil, errors.Wrap(err, "mongo connect")
	}
	s.client = client
	s.db = client.Database(name)

	// Ping with timeout
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Ping(pingCtx); err != nil {
		return s, errors.Wrap(err, "mongo ping")
	}
	return s, nil
}

// NewFromClient wraps an already connected client.  Tests use it with the
// driver's mock deployment.
func NewFromClient(client *mongo.Client, name string) *Store {
	s := &Store{client: client, db: client.Database(name)}
	s.state.Store(int32(Connected))
	return s
}

// DB returns the application database handle.
func (s *Store) DB() *mongo.Database { return s.db }

// State returns the last observed connectivity status.
func (s *Store) State() State { return State(s.state.Load()) }

// Ping checks the primary and records the outcome in the store's state.
func (s *Store) Ping(ctx context.Context) error {
	if s.closed.Load() {
		return ErrClosed
	}
	next := Connected
	err := s.client.Ping(ctx, readpref.Primary())
	if err != nil {
		next = Disconnected
	}
	if !s.closed.Load() {
		s.state.Store(int32(next))
	}
	return err
}

// Close disconnects the client.  It is safe to call more than once.
func (s *Store) Close(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.state.Store(int32(Disconnecting))
	err := s.client.Disconnect(ctx)
	s.state.Store(int32(Disconnected))
	return errors.Wrap(err, "mongo disconnect")
}
