package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JoinTicketTTL bounds how long a ticket may sit in a URL before use.
const JoinTicketTTL = time.Minute

type joinTicket struct {
	sessionID string
	clerkID   string
	expires   time.Time
}

// IssueTicket hands the session owner a single-use secret for the websocket
// URL, so the Clerk session token never shows up in access logs.
func (m *CanvasSessionManager) IssueTicket(sessionID, clerkID string) (string, time.Time, error) {
	if _, err := m.GetOwned(sessionID, clerkID); err != nil {
		return "", time.Time{}, err
	}

	ticket := uuid.New().String()
	expires := m.now().Add(JoinTicketTTL)

	m.ticketMu.Lock()
	m.tickets[ticket] = joinTicket{sessionID: sessionID, clerkID: clerkID, expires: expires}
	m.ticketMu.Unlock()
	return ticket, expires, nil
}

// RedeemTicket consumes ticket and returns its session. Unknown, expired,
// reused or mismatched tickets all report ErrNotFound.
func (m *CanvasSessionManager) RedeemTicket(sessionID, ticket string) (*CanvasSession, error) {
	m.ticketMu.Lock()
	t, ok := m.tickets[ticket]
	delete(m.tickets, ticket)
	m.ticketMu.Unlock()

	if !ok || t.sessionID != sessionID || !m.now().Before(t.expires) {
		return nil, fmt.Errorf("join ticket for canvas %s: %w", sessionID, ErrNotFound)
	}
	return m.GetOwned(sessionID, t.clerkID)
}

func (m *CanvasSessionManager) pruneTickets(now time.Time) {
	m.ticketMu.Lock()
	defer m.ticketMu.Unlock()
	for k, t := range m.tickets {
		if !now.Before(t.expires) {
			delete(m.tickets, k)
		}
	}
}
