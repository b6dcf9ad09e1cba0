package requests

import (
	"testing"

	"pointledger/bot/common"
	"pointledger/events"
	"pointledger/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildIncomingRequestEmbed(t *testing.T) {
	embed := BuildIncomingRequestEmbed(events.PaymentRequestStateChangeEvent{
		RequestID:  "r1",
		FromUserID: "2",
		ToUserID:   "1",
		Amount:     1500,
		Note:       "pizza",
		NewStatus:  models.PaymentRequestStatusPending,
	})

	assert.Equal(t, "<@2> is requesting **1,500 points** from you.", embed.Description)
	require.Len(t, embed.Fields, 1)
	assert.Equal(t, "pizza", embed.Fields[0].Value)
	assert.Equal(t, "Request ID: r1", embed.Footer.Text)
}

func TestBuildResolvedRequestEmbed(t *testing.T) {
	paid := BuildResolvedRequestEmbed(events.PaymentRequestStateChangeEvent{
		RequestID: "r1", ToUserID: "1", Amount: 2, NewStatus: models.PaymentRequestStatusCompleted,
	})
	assert.Equal(t, common.ColorSuccess, paid.Color)

	declined := BuildResolvedRequestEmbed(events.PaymentRequestStateChangeEvent{
		RequestID: "r1", ToUserID: "1", Amount: 2, NewStatus: models.PaymentRequestStatusDeclined,
	})
	assert.Equal(t, common.ColorDanger, declined.Color)
}

func TestBuildRequestComponents(t *testing.T) {
	components := BuildRequestComponents("r1")

	require.Len(t, components, 1)
	row := components[0].(discordgo.ActionsRow)
	require.Len(t, row.Components, 2)
	assert.Equal(t, "request_accept_r1", row.Components[0].(discordgo.Button).CustomID)
	assert.Equal(t, "request_decline_r1", row.Components[1].(discordgo.Button).CustomID)
}

func TestBuildPendingListEmbed(t *testing.T) {
	assert.Equal(t, "No pending requests.", BuildPendingListEmbed(nil, "1").Description)

	pending := []*models.PaymentRequest{{ID: "r1", FromUserID: "2", ToUserID: "1", Amount: 3}}
	assert.Equal(t, "📥 <@2> requests **3 points** (id `r1`)", BuildPendingListEmbed(pending, "1").Description)
}
