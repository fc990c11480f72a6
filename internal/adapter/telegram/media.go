package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/heartmarshall/terminology-bot/internal/domain"
	"github.com/heartmarshall/terminology-bot/internal/service/conversation"
)

type fileFetcher struct {
	bot    botAPI
	client *http.Client
}

func newFileFetcher(bot botAPI) *fileFetcher {
	return &fileFetcher{bot: bot, client: http.DefaultClient}
}

// media picks the attachment of a message. For photos the largest size is
// used. Voice notes count as audio and video notes as video.
func (f *fileFetcher) media(msg *tgbotapi.Message) *conversation.Media {
	switch {
	case len(msg.Photo) > 0:
		return f.attach(domain.MediaImage, msg.Photo[len(msg.Photo)-1].FileID, "")
	case msg.Audio != nil:
		return f.attach(domain.MediaAudio, msg.Audio.FileID, msg.Audio.FileName)
	case msg.Voice != nil:
		return f.attach(domain.MediaAudio, msg.Voice.FileID, "")
	case msg.Video != nil:
		return f.attach(domain.MediaVideo, msg.Video.FileID, msg.Video.FileName)
	case msg.VideoNote != nil:
		return f.attach(domain.MediaVideo, msg.VideoNote.FileID, "")
	}
	return nil
}

func (f *fileFetcher) attach(kind domain.MediaKind, fileID, name string) *conversation.Media {
	return &conversation.Media{
		Kind:     kind,
		FileName: name,
		Source:   &remoteFile{fetcher: f, fileID: fileID},
	}
}

// remoteFile downloads a Telegram file when the machine asks for it.
type remoteFile struct {
	fetcher *fileFetcher
	fileID  string
}

func (r *remoteFile) Open(ctx context.Context) (io.ReadCloser, error) {
	url, err := r.fetcher.bot.GetFileDirectURL(r.fileID)
	if err != nil {
		return nil, fmt.Errorf("telegram: resolve file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("telegram: build request: %w", err)
	}
	resp, err := r.fetcher.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram: download file: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("telegram: download file: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
