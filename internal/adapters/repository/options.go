package repository

type options struct {
	sizeHint int
}

// Option applies a configuration option to the MemStore.
type Option func(*options)

// WithSizeHint preallocates room for n seasons.
func WithSizeHint(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.sizeHint = n
		}
	}
}
