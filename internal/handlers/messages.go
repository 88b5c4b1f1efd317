package handlers

// User-facing texts and button labels.
const (
	MsgPrivateGreeting = "Привет! Я бот для игры в «Свою игру».\nДобавь меня в групповой чат и отправь /start, чтобы начать."
	MsgGameExists      = "В этом чате уже идёт игра. Дождитесь её окончания или попросите ведущего отправить /stop."
	MsgNewGame         = "Начинаем новую игру!\nВедущий набирает участников."
	MsgGameStopped     = "Игра остановлена ведущим. Спасибо за участие!"

	MsgMasterOnly        = "Начать игру может только ведущий."
	MsgYouAreMaster      = "Вы ведущий этой игры, вам нельзя участвовать."
	MsgMasterRemind      = "Вы ведущий, отвечать на вопросы вам нельзя."
	MsgAlreadyJoined     = "Вы уже участвуете в игре."
	MsgNotChooser        = "Сейчас вопрос выбирает другой игрок."
	MsgAlreadyTried      = "Вы уже использовали свою попытку на этом вопросе."
	MsgNobodyJoined      = "Никто не присоединился к игре. Подождите участников."
	MsgNoQuestions       = "В базе нет вопросов для нового раунда."
	MsgAnswerWindow      = "Напишите свой ответ одним сообщением в этот чат."
	MsgAnswerForward     = "Ответ принят и отправлен ведущему на проверку."
	MsgMasterUnreachable = "Не удалось связаться с ведущим в личных сообщениях. Вопрос снят, продолжаем игру."
	MsgNobodyAnswered    = "Больше никто не может ответить на этот вопрос."

	BtnStartGame = "Начать игру"
	BtnConnect   = "Присоединиться"
	BtnAnswer    = "Ответить"
	BtnCorrect   = "Верно"
	BtnWrong     = "Неверно"

	BtnAnsweredSlot = "-X-X-"
)
