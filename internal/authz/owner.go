package authz

// IsOwner reports whether callerID may modify content owned by ownerID.
// The zero id never owns anything.
func IsOwner(ownerID, callerID uint) bool {
	return ownerID != 0 && ownerID == callerID
}
