package transfer

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func TestRecipient(t *testing.T) {
	assert.Equal(t, "123", Recipient(&discordgo.User{ID: "123"}, "$alice"))
	assert.Equal(t, "$alice", Recipient(nil, "  $alice "))
	assert.Equal(t, "", Recipient(nil, "   "))
}
