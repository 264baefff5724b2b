package types

import "errors"

// ErrConversationNotFound is returned when a message is appended to a
// conversation that does not exist. Lookups signal absence with a nil
// result instead; appending must fail hard since a message without a
// valid owner would break the foreign-key invariant.
var ErrConversationNotFound = errors.New("conversation not found")
