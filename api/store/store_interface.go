/* store_interface.go
 * Contains the Store interface for dependency injection and testing, and the Record persisted per browser session
 * Authors: AIRO Web Team
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"airo-web/api/shared"
)

// ErrNotFound is returned by Load when nothing is stored for a session id, and by Update when the stored session
// is gone or belongs to another login
var ErrNotFound = errors.New("session not found")

// Interface defines the durable key-value storage used for browser sessions.
// This allows for mocking in tests and for switching between the mongo, redis and memory backends.
type Interface interface {
	Load(ctx context.Context, sid string) (Record, error)
	Save(ctx context.Context, sid string, record Record) error
	// Update replaces the record only while the stored one still carries token. It never creates a record
	Update(ctx context.Context, sid string, token string, record Record) error
	Delete(ctx context.Context, sid string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Record is everything persisted for one browser. Token and User are written and cleared together
type Record struct {
	Token         string         `json:"token,omitempty" bson:"token,omitempty"`
	User          *shared.User   `json:"user,omitempty" bson:"user,omitempty"`
	PendingGender *PendingGender `json:"pendingGender,omitempty" bson:"pendingGender,omitempty"`
	Flash         string         `json:"flash,omitempty" bson:"flash,omitempty"`
	UpdatedAt     time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// SignedIn reports whether the record carries a complete session
func (r Record) SignedIn() bool {
	return r.Token != "" && r.User != nil
}

// PendingGender is a gender change waiting for the user to confirm that their registrations will be cancelled
type PendingGender struct {
	Gender            shared.Gender `json:"gender" bson:"gender"`
	RegistrationCount int           `json:"registrationCount" bson:"registrationCount"`
}

// Options configures New
type Options struct {
	Backend  string // memory, mongo or redis
	MongoURI string
	MongoDB  string
	RedisURL string
	TTL      time.Duration
}

// New creates the storage backend named in opts.
// Preconditions: Receives a context and Options with a known backend name and its connection settings
// Postconditions: Returns a connected Interface, or an error if the backend is unknown or unreachable
func New(ctx context.Context, opts Options) (Interface, error) {
	switch opts.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "mongo":
		if opts.MongoURI == "" {
			return nil, fmt.Errorf("mongo session backend requires MONGO_URI")
		}
		return NewMongoStore(ctx, opts.MongoURI, opts.MongoDB)
	case "redis":
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("redis session backend requires REDIS_URL")
		}
		return NewRedisStore(ctx, opts.RedisURL, opts.TTL)
	default:
		return nil, fmt.Errorf("unknown session backend: %s", opts.Backend)
	}
}
