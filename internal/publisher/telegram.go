package publisher

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nDmitry/rssposter/internal/entity"
)

// Telegram publishes posts to a channel through the Bot API
type Telegram struct {
	bot     *tgbotapi.BotAPI
	channel string
}

// NewTelegram authenticates the bot and returns a publisher for channel.
// Channel is either an @username or a numeric chat ID.
// An empty endpoint means the public Bot API.
func NewTelegram(token, channel, endpoint string, client *http.Client) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, cmp.Or(endpoint, tgbotapi.APIEndpoint), client)

	if err != nil {
		return nil, fmt.Errorf("could not authenticate telegram bot: %w", err)
	}

	return &Telegram{bot: bot, channel: channel}, nil
}

// BotName returns the bot username as reported by Telegram
func (t *Telegram) BotName() string {
	return t.bot.Self.UserName
}

// Publish sends the post as a photo with a caption when it has an image,
// otherwise as a text message.
func (t *Telegram) Publish(ctx context.Context, post entity.Post) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg tgbotapi.Chattable

	if post.ImageURL != "" {
		msg = t.photo(post)
	} else {
		msg = t.message(post)
	}

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("could not send %s to %s: %w", post.Link, t.channel, err)
	}

	return nil
}

func (t *Telegram) photo(post entity.Post) tgbotapi.PhotoConfig {
	file := tgbotapi.FileURL(post.ImageURL)

	var photo tgbotapi.PhotoConfig

	if chatID, ok := t.chatID(); ok {
		photo = tgbotapi.NewPhoto(chatID, file)
	} else {
		photo = tgbotapi.NewPhotoToChannel(t.channel, file)
	}

	photo.Caption = fitCaption(post.Title, post.Link, maxCaptionLength)

	return photo
}

func (t *Telegram) message(post entity.Post) tgbotapi.MessageConfig {
	text := fitCaption(post.Title, post.Link, maxMessageLength)

	if chatID, ok := t.chatID(); ok {
		return tgbotapi.NewMessage(chatID, text)
	}

	return tgbotapi.NewMessageToChannel(t.channel, text)
}

func (t *Telegram) chatID() (int64, bool) {
	id, err := strconv.ParseInt(t.channel, 10, 64)
	return id, err == nil
}
