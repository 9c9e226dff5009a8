package stream

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Event is one backend change notification. Consumers treat it as an
// invalidation signal and refetch; partial fields from two events are never
// merged into a view.
type Event struct {
	Collection string
	Operation  string
	DocumentID string
}

// Subscription is a cancellable handle on a push stream of change events.
// The owner of the subscription is responsible for calling Cancel on
// teardown to avoid leaked listener goroutines.
type Subscription interface {
	// Events delivers change notifications until the stream ends or the
	// subscription is cancelled. The channel is closed afterwards.
	Events() <-chan Event
	// Err reports the terminal stream error, if any, once Events is closed.
	Err() error
	Cancel()
}

type changeStreamSub struct {
	events chan Event
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

func (s *changeStreamSub) Events() <-chan Event { return s.events }

func (s *changeStreamSub) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *changeStreamSub) Cancel() { s.cancel() }

// changeEvent mirrors the fields we read off a raw change stream document.
type changeEvent struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		ID interface{} `bson:"_id"`
	} `bson:"documentKey"`
}

// Watch opens a MongoDB change stream on the collection and adapts it into a
// Subscription. The optional pipeline narrows which changes are delivered.
func Watch(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, opts ...ChangeOption) (Subscription, error) {
	csOpts := applyOptions(opts)
	streamCtx, cancel := context.WithCancel(ctx)

	cs, err := coll.Watch(streamCtx, pipeline, csOpts...)
	if err != nil {
		cancel()
		return nil, err
	}

	sub := &changeStreamSub{
		events: make(chan Event, 8),
		cancel: cancel,
	}

	go func() {
		defer close(sub.events)
		defer cs.Close(context.Background())

		for cs.Next(streamCtx) {
			var ev changeEvent
			if err := cs.Decode(&ev); err != nil {
				continue
			}
			id := ""
			if ev.DocumentKey.ID != nil {
				if s, ok := ev.DocumentKey.ID.(string); ok {
					id = s
				}
			}
			select {
			case sub.events <- Event{Collection: coll.Name(), Operation: ev.OperationType, DocumentID: id}:
			case <-streamCtx.Done():
				return
			}
		}
		if err := cs.Err(); err != nil && streamCtx.Err() == nil {
			sub.mu.Lock()
			sub.err = err
			sub.mu.Unlock()
		}
	}()

	return sub, nil
}

// MatchUserDocuments narrows a change stream to documents owned by userID.
func MatchUserDocuments(userID string) mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "fullDocument.user_id", Value: userID}}}},
	}
}
