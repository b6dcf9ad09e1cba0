package activity

import (
	"pointledger/service"

	"github.com/bwmarrin/discordgo"
)

// Feature shows a user's recent transactions
type Feature struct {
	userService service.UserService
}

// NewFeature creates a new activity feature
func NewFeature(userService service.UserService) *Feature {
	return &Feature{userService: userService}
}

// HandleCommand handles /activity
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleActivity(s, i)
}
