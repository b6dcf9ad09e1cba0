package profile

import (
	"context"
	"fmt"

	"pointledger/bot/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

func (f *Feature) handleSetHandle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.CallerID(i)

	opt, ok := common.Options(i)["handle"]
	if !ok {
		common.RespondWithError(s, i, "Provide a handle.")
		return
	}
	handle := opt.StringValue()

	profile, err := f.userService.UpdateProfile(ctx, userID, &handle, nil)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("Handle update rejected")
		common.RespondWithError(s, i, common.ErrorMessage(err))
		return
	}

	common.RespondWithMessage(s, i, fmt.Sprintf("✅ Your handle is now **$%s**", profile.Handle), true)
}

func (f *Feature) handleSetName(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	userID := common.CallerID(i)

	opt, ok := common.Options(i)["name"]
	if !ok {
		common.RespondWithError(s, i, "Provide a display name.")
		return
	}
	name := opt.StringValue()

	profile, err := f.userService.UpdateProfile(ctx, userID, nil, &name)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Error updating display name")
		common.RespondWithError(s, i, common.ErrorMessage(err))
		return
	}

	if profile.DisplayName == "" {
		common.RespondWithMessage(s, i, "Display name unchanged.", true)
		return
	}
	common.RespondWithMessage(s, i, fmt.Sprintf("✅ Your display name is now **%s**", profile.DisplayName), true)
}
