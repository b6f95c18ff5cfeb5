/* store.go
 * Contains the MongoDB backed session store. Each browser session is a single document keyed by its session id,
 * replaced as a whole on every save so token and user never diverge
 * Authors: AIRO Web Team
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections struct {
		Sessions *mongo.Collection
	}
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

// sessionDocument is the shape of a session in the sessions collection
type sessionDocument struct {
	ID     string `bson:"_id"`
	Record `bson:",inline"`
}

// NewMongoStore connects to MongoDB and returns the session store.
// Preconditions: Receives a context, the mongo URI and database name (defaults to "airo" when empty)
// Postconditions: Returns pointer to the Store object, or error if the connection could not be established
func NewMongoStore(ctx context.Context, mongoURI string, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if dbName == "" {
		dbName = "airo"
	}
	db := client.Database(dbName)

	s := &Store{
		Client:   client,
		Database: db,
	}
	s.Collections.Sessions = db.Collection("sessions")
	return s, nil
}

// Load fetches the record stored for sid
// Preconditions: Receives a context and a session id
// Postconditions: Returns the stored Record, ErrNotFound if there is none, or an error if the lookup failed
func (s *Store) Load(ctx context.Context, sid string) (Record, error) {
	var doc sessionDocument
	err := s.Collections.Sessions.FindOne(ctx, bson.M{"_id": sid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("error fetching session from db: %w", err)
	}
	return doc.Record, nil
}

// Save replaces the record stored for sid, creating it if it does not exist
func (s *Store) Save(ctx context.Context, sid string, record Record) error {
	record.UpdatedAt = time.Now().UTC()
	doc := sessionDocument{ID: sid, Record: record}

	_, err := s.Collections.Sessions.ReplaceOne(ctx, bson.M{"_id": sid}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Update replaces the record stored for sid if it still holds token. No upsert, so a deleted session stays deleted
func (s *Store) Update(ctx context.Context, sid string, token string, record Record) error {
	record.UpdatedAt = time.Now().UTC()
	doc := sessionDocument{ID: sid, Record: record}

	res, err := s.Collections.Sessions.ReplaceOne(ctx, bson.M{"_id": sid, "token": token}, doc)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record stored for sid. Deleting a missing session is not an error
func (s *Store) Delete(ctx context.Context, sid string) error {
	_, err := s.Collections.Sessions.DeleteOne(ctx, bson.M{"_id": sid})
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx, nil)
}

// Close disconnects the mongo client
func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}
