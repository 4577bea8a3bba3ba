package discord

import (
	"fmt"
	"strconv"
	"strings"
)

// Component custom ids carry the action and its target, decoded exactly once
// by the dispatcher into typed commands.
const (
	idOpenWhitelistModal = "open_whitelist_modal"
	idWhitelistModal     = "whitelist_modal"
	prefixAcceptApp      = "accept_app"
	prefixRejectApp      = "reject_app"
	prefixOpenTicket     = "open_ticket"
	prefixTicketModal    = "ticket_modal"
	prefixCloseTicket    = "close_ticket"
	prefixClaimTicket    = "claim_ticket"
	prefixAddUser        = "add_user"
	prefixAddUserModal   = "add_user_modal"
	prefixFeedback       = "feedback"
	prefixFeedbackModal  = "feedback_modal"
)

func acceptAppID(applicationID string) string { return prefixAcceptApp + ":" + applicationID }
func rejectAppID(applicationID string) string { return prefixRejectApp + ":" + applicationID }
func openTicketID(categoryID string) string   { return prefixOpenTicket + ":" + categoryID }
func ticketModalID(categoryID string) string  { return prefixTicketModal + ":" + categoryID }
func closeTicketID(ticketID string) string    { return prefixCloseTicket + ":" + ticketID }
func claimTicketID(ticketID string) string    { return prefixClaimTicket + ":" + ticketID }
func addUserID(ticketID string) string        { return prefixAddUser + ":" + ticketID }
func addUserModalID(ticketID string) string   { return prefixAddUserModal + ":" + ticketID }

func feedbackID(ticketID string, rating int) string {
	return fmt.Sprintf("%s:%s:%d", prefixFeedback, ticketID, rating)
}

func feedbackModalID(ticketID string, rating int) string {
	return fmt.Sprintf("%s:%s:%d", prefixFeedbackModal, ticketID, rating)
}

// splitCustomID returns the action prefix and its arguments.
func splitCustomID(customID string) (string, []string) {
	parts := strings.Split(customID, ":")
	return parts[0], parts[1:]
}

func parseRating(arg string) int {
	rating, err := strconv.Atoi(arg)
	if err != nil {
		return 0
	}
	return rating
}
