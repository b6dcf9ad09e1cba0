package play

import (
	"pointledger/service"

	"github.com/bwmarrin/discordgo"
)

// Feature runs the payout game
type Feature struct {
	gamblingService service.GamblingService
}

func New(gamblingService service.GamblingService) *Feature {
	return &Feature{gamblingService: gamblingService}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handlePlay(s, i)
}
