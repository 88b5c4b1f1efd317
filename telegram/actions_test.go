package telegram

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewSendMessage(t *testing.T) {
	action := NewSendMessage(-1001, "привет", nil)

	if action.Method != "sendMessage" {
		t.Errorf("Method = %s, want sendMessage", action.Method)
	}
	if action.Params["chat_id"] != "-1001" {
		t.Errorf("chat_id = %s, want -1001", action.Params["chat_id"])
	}
	if action.Params["text"] != "привет" {
		t.Errorf("text = %s", action.Params["text"])
	}
	if _, ok := action.Params["reply_markup"]; ok {
		t.Error("reply_markup must be absent without a keyboard")
	}
}

func TestNewSendMessageWithOptions(t *testing.T) {
	action := NewSendMessage(42, "text", &SendOptions{
		ParseMode:        "MarkdownV2",
		ReplyToMessageID: 7,
		Keyboard:         [][]Button{{{Label: "Ок", Data: "ok"}}},
	})

	if action.Params["parse_mode"] != "MarkdownV2" {
		t.Errorf("parse_mode = %s", action.Params["parse_mode"])
	}
	if action.Params["reply_to_message_id"] != "7" {
		t.Errorf("reply_to_message_id = %s", action.Params["reply_to_message_id"])
	}

	var markup struct {
		InlineKeyboard [][]struct {
			Text         string  `json:"text"`
			CallbackData *string `json:"callback_data"`
		} `json:"inline_keyboard"`
	}
	if err := json.Unmarshal([]byte(action.Params["reply_markup"]), &markup); err != nil {
		t.Fatalf("reply_markup is not valid JSON: %v", err)
	}
	if len(markup.InlineKeyboard) != 1 || len(markup.InlineKeyboard[0]) != 1 {
		t.Fatalf("unexpected keyboard shape: %+v", markup.InlineKeyboard)
	}
	btn := markup.InlineKeyboard[0][0]
	if btn.Text != "Ок" || btn.CallbackData == nil || *btn.CallbackData != "ok" {
		t.Errorf("unexpected button: %+v", btn)
	}
}

func TestNewAnswerCallback(t *testing.T) {
	ack := NewAnswerCallback("cb-1", "", false)
	if ack.Method != "answerCallbackQuery" {
		t.Errorf("Method = %s", ack.Method)
	}
	if _, ok := ack.Params["text"]; ok {
		t.Error("plain ack must carry no text")
	}

	alert := NewAnswerCallback("cb-1", "нельзя", true)
	if alert.Params["text"] != "нельзя" || alert.Params["show_alert"] != "true" {
		t.Errorf("unexpected alert params: %v", alert.Params)
	}
}

func TestOutboundActionRoundTrip(t *testing.T) {
	action := NewEditMessageText(-1001, 5, "board", [][]Button{{{Label: "1) 100", Data: "btn_choice:1:1"}}})

	body, err := json.Marshal(action)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), `"method":"editMessageText"`) {
		t.Errorf("unexpected envelope: %s", body)
	}

	var decoded OutboundAction
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Method != action.Method || decoded.Params["message_id"] != "5" {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
}
