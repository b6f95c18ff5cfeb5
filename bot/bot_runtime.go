//go:build !test

/* bot_runtime.go
 * Contains runtime-only Discord methods that use *discordgo.Session directly.
 * Everything the announcer does goes through the DiscordSession interface so it can be tested without Discord
 * Authors: AIRO Web Team
 */

package bot

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

// Connect opens a bot session for posting announcements
// Preconditions: Receives the bot token (without the "Bot " prefix)
// Postconditions: Returns an open session and a function closing it, or an error
func Connect(token string) (*discordgo.Session, func(), error) {
	// create a session
	discord, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	// open session
	if err := discord.Open(); err != nil {
		return nil, nil, fmt.Errorf("failed to open discord session: %w", err)
	}
	log.Println("Discord announcer connected")

	return discord, func() {
		if err := discord.Close(); err != nil {
			log.Printf("failed to close discord session: %v", err)
		}
	}, nil
}
