package badger

import "fmt"

// Key prefixes for different data types
const (
	documentPrefix     = "docrec"
	documentUserPrefix = "docusr"
)

// makeDocumentKey generates a key for a document by ID.
func makeDocumentKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentPrefix, id))
}

// makeUserIndexKey generates a composite key for the owner index.
// Format: prefix:userID:documentID
func makeUserIndexKey(userID, id string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", documentUserPrefix, userID, id))
}

// makePartialUserIndexKey generates a prefix for scanning one user's documents.
func makePartialUserIndexKey(userID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", documentUserPrefix, userID))
}
