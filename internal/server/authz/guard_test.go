package authz

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/messagely/internal/common"
	"github.com/dmitrijs2005/messagely/internal/server/models"
)

var msg = &models.Message{ID: 1, FromUsername: "alice", ToUsername: "bob"}

func TestCanViewMessage(t *testing.T) {
	tests := []struct {
		caller string
		allow  bool
	}{
		{"alice", true},
		{"bob", true},
		{"carol", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.caller, func(t *testing.T) {
			err := CanViewMessage(tt.caller, msg)
			if tt.allow && err != nil {
				t.Fatalf("want allow, got %v", err)
			}
			if !tt.allow && !errors.Is(err, common.ErrorUnauthorized) {
				t.Fatalf("want common.ErrorUnauthorized, got %v", err)
			}
		})
	}
}

func TestCanMarkRead_OnlyRecipient(t *testing.T) {
	if err := CanMarkRead("bob", msg); err != nil {
		t.Fatalf("recipient must be allowed, got %v", err)
	}
	if err := CanMarkRead("alice", msg); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("sender must be denied, got %v", err)
	}
	if err := CanMarkRead("carol", msg); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("third party must be denied, got %v", err)
	}
}

func TestCanListMessages(t *testing.T) {
	if err := CanListMessages("alice", "alice"); err != nil {
		t.Fatalf("owner must be allowed, got %v", err)
	}
	if err := CanListMessages("bob", "alice"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("non-owner must be denied, got %v", err)
	}
}
