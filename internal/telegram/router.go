package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"question-analyzer/internal/analyzer"
	"question-analyzer/internal/vision"
)

type Router struct {
	Bot        *tgbotapi.BotAPI
	Analyzer   *analyzer.Service
	Engines    *vision.Engines
	EngManager *vision.Manager
	Log        zerolog.Logger
}

func (r *Router) HandleUpdate(upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}

	if upd.Message.IsCommand() {
		r.HandleCommand(upd)
		return
	}

	if len(upd.Message.Photo) > 0 {
		r.acceptPhoto(*upd.Message)
	}
}

func (r *Router) HandleCommand(upd tgbotapi.Update) {
	cid := upd.Message.Chat.ID
	switch upd.Message.Command() {
	case "start":
		r.send(cid, "Send me a photo of a technical question. I will return the extracted questions as structured records plus a ready-to-paste solver prompt.\nCommands: /health, /engine")
	case "health":
		r.send(cid, "✅ OK")
	case "engine":
		r.handleEngineCommand(cid, upd.Message.Text)
	default:
		r.send(cid, "Unknown command")
	}
}

// handleEngineCommand parses /engine and switches the engine for a chat.
// Formats:
//
//	/engine gemini
//	/engine openai
func (r *Router) handleEngineCommand(chatID int64, cmd string) {
	args := strings.Fields(strings.TrimSpace(strings.TrimPrefix(cmd, "/engine")))
	if len(args) == 0 {
		cur := r.EngManager.Get(chatID)
		r.send(chatID, "Current engine: "+cur.Name()+" ("+cur.GetModel()+")\nUsage:\n/engine gemini\n/engine openai")
		return
	}

	eng, err := r.Engines.Get(args[0])
	if err != nil {
		r.send(chatID, "Unknown engine. Available: "+strings.Join(r.Engines.Names(), " | "))
		return
	}
	r.EngManager.Set(chatID, eng)
	r.send(chatID, "✅ Engine: "+eng.Name()+" ("+eng.GetModel()+").")
}

func (r *Router) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	_, _ = r.Bot.Send(msg)
}

func (r *Router) SendError(chatID int64, err error) {
	r.send(chatID, fmt.Sprintf("Analysis error: %v", err))
}

// sendResult renders one per-image outcome as chat messages: the record
// summary first, the solver prompt second.
func (r *Router) sendResult(chatID int64, res analyzer.Result) {
	if res.Err != "" {
		r.send(chatID, "❌ "+res.Filename+": "+res.Err)
		return
	}
	if len(res.Records) == 0 {
		r.send(chatID, "No questions found on this image.")
		return
	}

	r.send(chatID, clip(formatSummary(res)))

	if res.SolverPrompt != "" {
		r.send(chatID, clip("Solver prompt (paste into any chat model):\n\n"+res.SolverPrompt))
	}
}

func formatSummary(res analyzer.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📝 Found %d question(s) via %s (%s):\n", len(res.Records), res.Engine, res.Model)
	for _, rec := range res.Records {
		b.WriteString("\n")
		if h := rec.Heading(); h != "" {
			b.WriteString(h + " · ")
		}
		b.WriteString(string(rec.Type))
		if rec.Subject != "" {
			b.WriteString(" · " + rec.Subject)
		}
		if rec.Language != "" {
			b.WriteString(" · " + rec.Language)
		}
		b.WriteString("\n")
		b.WriteString(rec.Text)
		b.WriteString("\n")
		for i, opt := range rec.Options {
			fmt.Fprintf(&b, "%c) %s\n", 'A'+i, opt)
		}
	}
	return b.String()
}

// Telegram rejects messages over 4096 chars.
func clip(s string) string {
	if len(s) > 3900 {
		return s[:3900] + "…"
	}
	return s
}
