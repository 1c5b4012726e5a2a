package api

import (
	"fmt"
	"strings"
)

// Bottle represents a bottle in the user's cellar as returned by the server.
type Bottle struct {
	ID           string `json:"id"`
	WineID       string `json:"wineId"`
	WineName     string `json:"wineName"`
	Producer     string `json:"producer,omitempty"`
	Vintage      int    `json:"vintage"`
	Quantity     int    `json:"quantity"`
	LocationID   string `json:"bottleLocationId,omitempty"`
	LocationName string `json:"bottleLocationName,omitempty"`
	Shared       bool   `json:"shared"`
}

// Label returns a single-line display label for the bottle.
func (b *Bottle) Label() string {
	name := strings.TrimSpace(b.WineName)
	if name == "" {
		name = "Unknown wine"
	}
	if b.Vintage > 0 {
		return fmt.Sprintf("%s %d", name, b.Vintage)
	}
	return name
}

// Recipient represents a user that bottles can be shared with.
type Recipient struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Wine is a catalog entry that bottles reference.
type Wine struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Producer string `json:"producer,omitempty"`
	Region   string `json:"region,omitempty"`
}

// Location is a storage location within the cellar (rack, shelf, fridge).
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewBottleRequest describes a bottle that does not exist yet and should be
// created by the server as part of a share. Accumulated by the wizard, one
// entry per inventory-intake cycle.
type NewBottleRequest struct {
	WineID           string `json:"wineId"`
	Vintage          int    `json:"vintage"`
	Quantity         int    `json:"quantity"`
	BottleLocationID string `json:"bottleLocationId,omitempty"`
}

// ShareRequest is the wire format of the atomic share submission. It is
// produced once, at submission time, and never partially sent.
type ShareRequest struct {
	ExistingBottleIDs []string           `json:"existingBottleIds"`
	NewBottleRequests []NewBottleRequest `json:"newBottleRequests"`
	RecipientUserIDs  []string           `json:"recipientUserIds"`
}

// ShareResponse is the structured response to a successful share request.
// All fields are optional on the wire.
type ShareResponse struct {
	Message          string   `json:"message,omitempty"`
	SharedBottleIDs  []string `json:"sharedBottleIds,omitempty"`
	RecipientUserIDs []string `json:"recipientUserIds,omitempty"`
}

// CreateWineRequest is the payload for creating a new catalog entry from the
// intake dialog when the search finds nothing.
type CreateWineRequest struct {
	Name     string `json:"name"`
	Producer string `json:"producer,omitempty"`
	Region   string `json:"region,omitempty"`
}
