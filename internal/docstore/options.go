package docstore

// PutOption adjusts how a document write is encoded.
type PutOption func(*putOptions)

type putOptions struct {
	pretty bool
}

// WithPretty writes the document indented instead of compact. The
// encoding choice is not recorded anywhere and reads do not depend on
// it.
func WithPretty() PutOption {
	return func(o *putOptions) {
		o.pretty = true
	}
}

// ReadOption adjusts how a missing document is reported.
type ReadOption func(*readOptions)

type readOptions struct {
	allowMissing bool
}

// AllowMissing turns the not-found error on reads into a zero result.
func AllowMissing() ReadOption {
	return func(o *readOptions) {
		o.allowMissing = true
	}
}
