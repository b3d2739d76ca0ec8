// Package policy holds authorization rules for product mutations.
package policy

// CanMutate reports whether callerID may update or delete a product owned by
// ownerID. There is no admin override.
func CanMutate(callerID, ownerID uint) bool {
	return callerID != 0 && callerID == ownerID
}
