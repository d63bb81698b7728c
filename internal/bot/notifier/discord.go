package notifier

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// SessionSender adapts a live discordgo session to the Sender interface.
type SessionSender struct {
	Session *discordgo.Session
}

// SendAnnouncement posts one message with the given content and embed
// to the channel.
func (s *SessionSender) SendAnnouncement(channelID string, content string, e *discordgo.MessageEmbed) error {
	_, err := s.Session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: content,
		Embeds:  []*discordgo.MessageEmbed{e},
	})
	if err != nil {
		return fmt.Errorf("SendAnnouncement: channel %s: %w", channelID, err)
	}

	return nil
}
