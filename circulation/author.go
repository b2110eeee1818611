package circulation

import (
	"github.com/AntonStoeckl/library-circulation-go/identity"
)

// Author is an immutable catalog value: a Person plus contact email and an identifier.
type Author struct {
	ID identity.ID
	Person
	Email string
}
