package stream

import "go.mongodb.org/mongo-driver/mongo/options"

// ChangeOption tweaks the underlying change stream configuration.
type ChangeOption func(*options.ChangeStreamOptions)

// WithFullDocument requests the post-image of updated documents, which is
// required when a $match pipeline inspects fullDocument fields.
func WithFullDocument() ChangeOption {
	return func(o *options.ChangeStreamOptions) {
		o.SetFullDocument(options.UpdateLookup)
	}
}

func applyOptions(opts []ChangeOption) []*options.ChangeStreamOptions {
	if len(opts) == 0 {
		return nil
	}
	o := options.ChangeStream()
	for _, opt := range opts {
		opt(o)
	}
	return []*options.ChangeStreamOptions{o}
}
