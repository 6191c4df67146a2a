// Package notify posts lead and listing alerts to the team chat.
package notify

import (
	"context"
	"time"
)

type ContactRequestMessage struct {
	ID        uint
	Name      string
	Phone     string
	Email     string
	Messenger string
	VisaType  string
	Message   string
}

type ViewingRequestMessage struct {
	ID             uint
	Name           string
	Phone          string
	Messenger      string
	Type           string
	DesiredDate    *time.Time
	Comment        string
	ApartmentID    uint
	ApartmentTitle string
}

type ApartmentMessage struct {
	ID           uint
	Title        string
	PriceUsd     int
	Rooms        int
	District     string
	MatchedCount int
}

type SubscriberAlertMessage struct {
	ApartmentID uint
	Title       string
	PriceUsd    int
	Rooms       int
	Emails      []string
}

// Notifier delivers alerts. Callers treat every error as non-fatal.
type Notifier interface {
	NewContactRequest(ctx context.Context, m ContactRequestMessage) error
	NewViewingRequest(ctx context.Context, m ViewingRequestMessage) error
	NewApartment(ctx context.Context, m ApartmentMessage) error
	SubscriberAlert(ctx context.Context, m SubscriberAlertMessage) error
}

// Noop drops every message; used when no chat is configured.
type Noop struct{}

func (Noop) NewContactRequest(context.Context, ContactRequestMessage) error { return nil }
func (Noop) NewViewingRequest(context.Context, ViewingRequestMessage) error { return nil }
func (Noop) NewApartment(context.Context, ApartmentMessage) error           { return nil }
func (Noop) SubscriberAlert(context.Context, SubscriberAlertMessage) error  { return nil }
