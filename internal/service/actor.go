package service

import "go-storefront/internal/ws"

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID    string
	Name  string
	Email string
}

// SystemActor is used by storefront checkouts and background jobs.
var SystemActor = Actor{ID: "system", Name: "system"}

func (a Actor) label() string {
	if a.Name != "" {
		return a.Name
	}
	if a.ID != "" {
		return a.ID
	}
	return SystemActor.Name
}

func (a Actor) wsActor() *ws.Actor {
	return &ws.Actor{ID: a.ID, Name: a.label()}
}
