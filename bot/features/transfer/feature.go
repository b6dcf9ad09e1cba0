package transfer

import (
	"pointledger/service"

	"github.com/bwmarrin/discordgo"
)

type Feature struct {
	transferService service.TransferService
}

func New(transferService service.TransferService) *Feature {
	return &Feature{
		transferService: transferService,
	}
}

// HandleCommand serves /send and /withdraw
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "send":
		f.handleSend(s, i)
	case "withdraw":
		f.handleWithdraw(s, i)
	}
}
