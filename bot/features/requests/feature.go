package requests

import (
	"strings"

	"pointledger/service"

	"github.com/bwmarrin/discordgo"
)

const (
	acceptPrefix  = "request_accept_"
	declinePrefix = "request_decline_"
)

// Feature manages payment requests
type Feature struct {
	session        *discordgo.Session
	requestService service.PaymentRequestService
}

// NewFeature creates a new payment request feature
func NewFeature(session *discordgo.Session, requestService service.PaymentRequestService) *Feature {
	return &Feature{
		session:        session,
		requestService: requestService,
	}
}

// HandleCommand routes request commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "request":
		f.handleCreate(s, i)
	case "requests":
		f.handleList(s, i)
	case "accept":
		f.handleAccept(s, i, optionID(i))
	case "decline":
		f.handleDecline(s, i, optionID(i))
	}
}

// HandleInteraction handles the accept and decline buttons of a request DM
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	switch {
	case strings.HasPrefix(customID, acceptPrefix):
		f.handleAccept(s, i, strings.TrimPrefix(customID, acceptPrefix))
	case strings.HasPrefix(customID, declinePrefix):
		f.handleDecline(s, i, strings.TrimPrefix(customID, declinePrefix))
	}
}

func optionID(i *discordgo.InteractionCreate) string {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "id" {
			return strings.TrimSpace(opt.StringValue())
		}
	}
	return ""
}
