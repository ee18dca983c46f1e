// Package policy holds the role-based authorization table as a pure
// function, so the allow-lists can be tested without any HTTP or storage
// plumbing. Checks are per-operation allow-lists rather than a single
// privilege threshold.
package policy

import "github.com/aniketsinghdshgsonic/ai-blog-cms/internal/models"

// Operation identifies an action subject to authorization.
type Operation int

const (
	// OpCategoryManage covers create/update/delete of categories.
	OpCategoryManage Operation = iota
	// OpTagManage covers create/update/delete of tags.
	OpTagManage
	// OpPostCreate covers creating a post.
	OpPostCreate
	// OpPostModify covers updating or deleting a post; ownership grants it.
	OpPostModify
	// OpUserList covers listing all users.
	OpUserList
	// OpUserView covers reading a user profile; self-access grants it.
	OpUserView
	// OpUserModify covers updating a user profile; self-access grants it.
	OpUserModify
	// OpUserAdminister covers role changes, activation toggles, and
	// deletion of user accounts.
	OpUserAdminister
	// OpAIAssist covers the AI content-assist endpoints.
	OpAIAssist
)

// Allow reports whether a role may perform an operation. owns is true
// when the actor owns the target resource (their own post, their own
// profile); it is ignored by operations that are not ownership-aware.
func Allow(role models.Role, op Operation, owns bool) bool {
	switch op {
	case OpCategoryManage, OpTagManage:
		return role == models.RoleAdmin || role == models.RoleEditor
	case OpPostCreate, OpAIAssist:
		return role == models.RoleAdmin || role == models.RoleEditor || role == models.RoleAuthor
	case OpPostModify:
		return owns || role == models.RoleAdmin || role == models.RoleEditor
	case OpUserList, OpUserAdminister:
		return role == models.RoleAdmin
	case OpUserView, OpUserModify:
		return owns || role == models.RoleAdmin
	}
	return false
}
