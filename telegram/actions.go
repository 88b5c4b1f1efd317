package telegram

import (
	"encoding/json"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// OutboundAction is one call against the Telegram Bot API, carried through
// the output queue as JSON and executed by the sender process.
type OutboundAction struct {
	Method string            `json:"method"`
	Params map[string]string `json:"params"`
}

// Button is one inline keyboard cell: a label and the opaque callback
// payload delivered back when it is tapped.
type Button struct {
	Label string
	Data  string
}

// SendOptions are the optional parts of a sendMessage call.
type SendOptions struct {
	Keyboard         [][]Button
	ParseMode        string
	ReplyToMessageID int
}

func NewSendMessage(chatID int64, text string, opts *SendOptions) OutboundAction {
	params := map[string]string{
		"chat_id": strconv.FormatInt(chatID, 10),
		"text":    text,
	}

	if opts != nil {
		if opts.ParseMode != "" {
			params["parse_mode"] = opts.ParseMode
		}
		if opts.ReplyToMessageID != 0 {
			params["reply_to_message_id"] = strconv.Itoa(opts.ReplyToMessageID)
		}
		if opts.Keyboard != nil {
			params["reply_markup"] = marshalKeyboard(opts.Keyboard)
		}
	}

	return OutboundAction{Method: "sendMessage", Params: params}
}

func NewEditMessageText(chatID int64, messageID int, text string, keyboard [][]Button) OutboundAction {
	params := map[string]string{
		"chat_id":    strconv.FormatInt(chatID, 10),
		"message_id": strconv.Itoa(messageID),
		"text":       text,
	}
	if keyboard != nil {
		params["reply_markup"] = marshalKeyboard(keyboard)
	}

	return OutboundAction{Method: "editMessageText", Params: params}
}

func NewAnswerCallback(callbackID, text string, showAlert bool) OutboundAction {
	params := map[string]string{
		"callback_query_id": callbackID,
	}
	if text != "" {
		params["text"] = text
	}
	if showAlert {
		params["show_alert"] = "true"
	}

	return OutboundAction{Method: "answerCallbackQuery", Params: params}
}

func marshalKeyboard(keyboard [][]Button) string {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data))
		}
		rows = append(rows, buttons)
	}

	markup := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
	data, err := json.Marshal(markup)
	if err != nil {
		return ""
	}
	return string(data)
}
