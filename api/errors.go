package api

// Machine-checkable error kinds returned in the JSON error body
const (
	// KindValidation marks a request rejected before any store mutation
	KindValidation = "validation"

	// KindNotFound marks a missing (name, protocol) key
	KindNotFound = "not_found"

	// KindGeneration marks a stored record that cannot be encoded into a
	// proxy URL. It indicates a record that should have failed validation
	// at save time, so it is reported as a server error.
	KindGeneration = "generation"

	// KindCollaborator marks a failure of the external chaos CLI or probe;
	// the collaborator's message is forwarded intact
	KindCollaborator = "collaborator"

	// KindPersistence marks a failed durable write. The in-memory state is
	// already mutated when this is returned.
	KindPersistence = "persistence"
)
