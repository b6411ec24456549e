package service

import "block-builder-backend/internal/authorization"

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	UserID uint
	Role   authorization.UserRole
}

func (a Actor) canManage(ownerID uint) bool {
	if a.UserID != 0 && a.UserID == ownerID {
		return authorization.RoleHasPermission(a.Role, authorization.PermissionManageOwnBlocks)
	}
	return authorization.RoleHasPermission(a.Role, authorization.PermissionManageAllBlocks)
}
