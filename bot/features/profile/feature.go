package profile

import (
	"pointledger/service"

	"github.com/bwmarrin/discordgo"
)

// Feature handles handle and display name management
type Feature struct {
	userService service.UserService
}

// NewFeature creates a new profile feature instance
func NewFeature(userService service.UserService) *Feature {
	return &Feature{
		userService: userService,
	}
}

// HandleCommand routes profile commands to appropriate handlers
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "handle":
		f.handleSetHandle(s, i)
	case "name":
		f.handleSetName(s, i)
	}
}
