package authz

import "errors"

// Custom errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidRole       = errors.New("role is not part of the role enumeration")
	ErrUnknownPermission = errors.New("permission id is not in the catalog")
	ErrImmutableRole     = errors.New("super_admin permission set cannot be modified")
)
