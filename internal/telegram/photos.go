package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"question-analyzer/internal/analyzer"
)

func (r *Router) acceptPhoto(msg tgbotapi.Message) {
	cid := msg.Chat.ID
	ph := msg.Photo[len(msg.Photo)-1]
	file, err := r.Bot.GetFile(tgbotapi.FileConfig{FileID: ph.FileID})
	if err != nil {
		r.SendError(cid, err)
		return
	}
	url := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", r.Bot.Token, file.FilePath)
	imgBytes, err := download(url)
	if err != nil {
		r.SendError(cid, err)
		return
	}

	r.send(cid, "Photo accepted, analyzing…")
	go r.analyzePhoto(cid, imgBytes, path.Base(file.FilePath))
}

func (r *Router) analyzePhoto(cid int64, imgBytes []byte, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
	defer cancel()

	eng := r.EngManager.Get(cid)
	results, err := r.Analyzer.Analyze(ctx, eng.Name(), []analyzer.Input{
		{Data: imgBytes, Filename: name},
	})
	if err != nil {
		r.Log.Warn().Err(err).Int64("chat", cid).Msg("telegram analysis failed")
		r.SendError(cid, err)
		return
	}

	for _, res := range results {
		r.sendResult(cid, res)
	}
}

func download(url string) ([]byte, error) {
	resp, err := httpClient().Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return io.ReadAll(resp.Body)
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}
