package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"shopping-list/internal/metrics"
	"shopping-list/internal/shopping"
)

// Callback data prefixes carried by inline buttons.
const (
	actionHint      = "hint"
	actionDelete    = "del"
	actionAdd       = "add"
	actionDeleteAll = "clear"
)

// formatList renders the list screen: a header and one keyboard row per item,
// followed by the add and delete-all controls.
func formatList(items []shopping.Item) (string, tgbotapi.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🛒 *%s*\n\n", AppTitle))
	if len(items) == 0 {
		sb.WriteString(EmptyList)
	} else {
		sb.WriteString(fmt.Sprintf("%d item(s)", len(items)))
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items)+1)
	for _, item := range items {
		id := strconv.FormatInt(item.ID, 10)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(item.String(), actionHint+"|"+id),
			tgbotapi.NewInlineKeyboardButtonData(LabelDelete, actionDelete+"|"+id),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(LabelAdd, actionAdd),
		tgbotapi.NewInlineKeyboardButtonData(LabelDeleteAll, actionDeleteAll),
	))

	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// formatDialogPrompt renders the add-item dialog. Sending the reply confirms
// it; the forced reply opens the input field with the placeholders.
func formatDialogPrompt() (string, tgbotapi.ForceReply) {
	text := fmt.Sprintf("📝 *%s*\n\nReply with `%s %s`, e.g. `apples 2`.\n*%s*: send the reply. /cancel to close.",
		DialogTitle, PlaceholderProduct, PlaceholderAmount, LabelConfirm)
	return text, tgbotapi.ForceReply{
		ForceReply:            true,
		InputFieldPlaceholder: PlaceholderProduct + " " + PlaceholderAmount,
	}
}

// splitEntry reads a dialog reply: the last whitespace-separated token is the
// amount, everything before it the product. A single token is a product with
// no amount.
func splitEntry(text string) (product, amount string) {
	text = strings.TrimSpace(text)
	idx := strings.LastIndexAny(text, " \t\n")
	if idx < 0 {
		return text, ""
	}
	return strings.TrimSpace(text[:idx]), text[idx+1:]
}

// parseCallback splits "action|id". id is 0 when absent or malformed.
func parseCallback(data string) (action string, id int64) {
	action, rest, found := strings.Cut(data, "|")
	if !found {
		return action, 0
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return action, 0
	}
	return action, id
}

func formatStats(stats []metrics.DailyStats, health metrics.SysHealth, itemCount int) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent list changes*\n")
	if len(stats) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range stats {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tasks, %d failed, %.1fms avg\n", d.Date, d.Total, d.Failed, d.AvgLatencyMS))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• Items: %d\n", itemCount))
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	return sb.String()
}
