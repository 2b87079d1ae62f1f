// Package authz holds the authorization guard: pure allow/deny
// decisions over a caller identity and a stored resource. The guard
// never mutates anything and never looks at client-supplied
// participant fields; callers must pass the message row as read from
// the store.
package authz

import (
	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/models"
)

// CanViewMessage allows only the sender or the recipient to read a
// message.
func CanViewMessage(caller string, m *models.Message) error {
	if caller == m.FromUsername || caller == m.ToUsername {
		return nil
	}
	return common.ErrorUnauthorized
}

// CanMarkRead allows only the recipient to mark a message read. The
// decision uses the stored row's to_username, never a request field.
func CanMarkRead(caller string, m *models.Message) error {
	if caller == m.ToUsername {
		return nil
	}
	return common.ErrorUnauthorized
}

// CanListMessages allows a user to list only their own sent or
// received messages.
func CanListMessages(caller, owner string) error {
	if caller == owner {
		return nil
	}
	return common.ErrorUnauthorized
}
