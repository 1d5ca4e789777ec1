package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"shopping-list/internal/config"
	"shopping-list/internal/metrics"
	"shopping-list/internal/shopping"
	"shopping-list/internal/viewmodel"
)

// botAPI is the part of *tgbotapi.BotAPI the bot talks to.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// StatsSource provides the task telemetry shown by /stats.
type StatsSource interface {
	GetDailyStats(ctx context.Context, days int) ([]metrics.DailyStats, error)
}

// Options tunes a Bot.
type Options struct {
	Polling   bool
	StatsDays int
	DataDir   string
}

// Bot renders the shopping list in Telegram chats and turns button presses
// and replies into view model intents.
type Bot struct {
	api     botAPI
	vm      *viewmodel.ViewModel
	stats   StatsSource
	opts    Options
	logger  zerolog.Logger
	dialogs *dialogs

	// screenMu serializes posting and editing list screens, so a screen is
	// registered and rendered against the newest snapshot as one step.
	screenMu sync.Mutex

	mu      sync.Mutex
	items   []shopping.Item // last snapshot received
	screens map[int64]int   // chat ID -> list message ID
}

// NewBot initializes the Telegram API and sets the webhook, or clears it when
// no webhook URL is configured so long polling can be used.
func NewBot(
	cfg *config.Config,
	vm *viewmodel.ViewModel,
	stats StatsSource,
	dataDir string,
	logger zerolog.Logger,
) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info().Str("account", api.Self.UserName).Msg("authorized on telegram")

	polling := cfg.TelegramWebhookURL == ""
	if polling {
		if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			return nil, fmt.Errorf("failed to delete webhook: %w", err)
		}
	} else {
		wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
		if err != nil {
			return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
		}
		resp, err := api.Request(wh)
		if err != nil {
			return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
		}
		logger.Info().Str("description", resp.Description).Msg("webhook set")
	}

	return newBot(api, vm, stats, Options{
		Polling:   polling,
		StatsDays: cfg.StatsDays,
		DataDir:   dataDir,
	}, logger), nil
}

func newBot(api botAPI, vm *viewmodel.ViewModel, stats StatsSource, opts Options, logger zerolog.Logger) *Bot {
	return &Bot{
		api:     api,
		vm:      vm,
		stats:   stats,
		opts:    opts,
		logger:  logger.With().Str("component", "telegram").Logger(),
		dialogs: newDialogs(vm),
		screens: make(map[int64]int),
	}
}

// Run follows the shopping list and re-renders every list screen on change.
// In polling mode it also consumes updates. It returns when ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	sub := b.vm.Items()
	defer sub.Close()

	var updates tgbotapi.UpdatesChannel
	if b.opts.Polling {
		u := tgbotapi.NewUpdate(0)
		u.Timeout = 30
		updates = b.api.GetUpdatesChan(u)
		defer b.api.StopReceivingUpdates()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case items, ok := <-sub.Updates():
			if !ok {
				return nil
			}
			b.render(items)
		case update, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			b.handleUpdate(update)
		}
	}
}

// render stores the snapshot and edits every known list screen.
func (b *Bot) render(items []shopping.Item) {
	b.screenMu.Lock()
	defer b.screenMu.Unlock()

	b.mu.Lock()
	b.items = items
	screens := make(map[int64]int, len(b.screens))
	for chatID, msgID := range b.screens {
		screens[chatID] = msgID
	}
	b.mu.Unlock()

	text, markup := formatList(items)
	for chatID, msgID := range screens {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, markup)
		edit.ParseMode = tgbotapi.ModeMarkdown
		if _, err := b.api.Send(edit); err != nil {
			if strings.Contains(err.Error(), "message is not modified") {
				continue
			}
			b.logger.Warn().Err(err).Int64("chat_id", chatID).Msg("failed to re-render list, dropping screen")
			b.forgetScreen(chatID, msgID)
		}
	}
}

func (b *Bot) forgetScreen(chatID int64, msgID int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.screens[chatID] == msgID {
		delete(b.screens, chatID)
	}
}

func (b *Bot) snapshot() []shopping.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.items
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
		return
	}
	if update.Message != nil {
		b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start", "list":
		b.postList(chatID)
		return
	case "cancel":
		dialog := b.dialogs.get(chatID)
		if dialog.State() == viewmodel.DialogOpen {
			dialog.Dismiss()
			b.reply(chatID, NoticeDialogClosed)
		}
		return
	case "stats":
		b.postStats(chatID)
		return
	}

	dialog := b.dialogs.get(chatID)
	if dialog.State() != viewmodel.DialogOpen {
		b.reply(chatID, NoticeUseAdd)
		return
	}

	product, amount := splitEntry(msg.Text)
	if err := dialog.Submit(product, amount); err != nil {
		if errors.Is(err, viewmodel.ErrInvalidInput) {
			b.reply(chatID, NoticeInvalidInput)
			return
		}
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to submit dialog")
		return
	}
	// Move the list screen below the conversation so the new item is in view.
	b.postList(chatID)
}

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	action, id := parseCallback(query.Data)
	notice := ""

	switch action {
	case actionHint:
		notice = NoticeDeleteHint
	case actionDelete:
		b.vm.Delete(b.lookup(id))
	case actionDeleteAll:
		b.vm.DeleteAll()
	case actionAdd:
		if query.Message != nil {
			chatID := query.Message.Chat.ID
			b.dialogs.get(chatID).Open()
			text, markup := formatDialogPrompt()
			prompt := tgbotapi.NewMessage(chatID, text)
			prompt.ReplyMarkup = markup
			b.send(prompt, true)
		}
	default:
		b.logger.Debug().Str("data", query.Data).Msg("unknown callback")
	}

	// Answering removes the button spinner; a non-empty text shows as a toast.
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, notice)); err != nil {
		b.logger.Warn().Err(err).Msg("failed to answer callback")
	}
}

// lookup finds the rendered item with id. Unknown ids still produce an item
// so the delete reaches the store and becomes a no-op there.
func (b *Bot) lookup(id int64) shopping.Item {
	for _, item := range b.snapshot() {
		if item.ID == id {
			return item
		}
	}
	return shopping.Item{ID: id}
}

// postList sends a fresh list screen to chatID and makes it the one kept up to date.
func (b *Bot) postList(chatID int64) {
	b.screenMu.Lock()
	defer b.screenMu.Unlock()

	text, markup := formatList(b.snapshot())
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup

	sent, ok := b.send(msg, true)
	if !ok {
		return
	}
	b.mu.Lock()
	b.screens[chatID] = sent.MessageID
	b.mu.Unlock()
}

func (b *Bot) postStats(chatID int64) {
	stats, err := b.stats.GetDailyStats(context.Background(), b.opts.StatsDays)
	if err != nil {
		b.logger.Error().Err(err).Msg("failed to fetch stats")
		b.reply(chatID, "❌ Error fetching stats.")
		return
	}
	health := metrics.GetSysHealth(b.opts.DataDir)
	b.send(tgbotapi.NewMessage(chatID, formatStats(stats, health, len(b.snapshot()))), true)
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text), false)
}

func (b *Bot) send(msg tgbotapi.MessageConfig, markdown bool) (tgbotapi.Message, bool) {
	if markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}
	sent, err := b.api.Send(msg)
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", msg.ChatID).Msg("failed to send message")
		return tgbotapi.Message{}, false
	}
	return sent, true
}
