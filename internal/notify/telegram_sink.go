package notify

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"totocalcio/internal/events"
)

// Min interval between two messages to the same chat (Telegram allows ~30/min).
const telegramSendInterval = 2 * time.Second

// Only these events are worth a chat message.
var telegramEvents = map[events.Type]string{
	events.TournamentCreated:     "🏆",
	events.RoundStateChanged:     "📅",
	events.WeeklyPrizeAssigned:   "💰",
	events.WeeklyPrizeRolledOver: "🔁",
	events.WeeklyPrizeUnclaimed:  "⚠️",
	events.FinalPrizesAssigned:   "🥇",
	events.TournamentCompleted:   "🏁",
	events.RoundReminder:         "⏰",
	events.ReportPublished:       "📄",
}

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSink forwards notable events to a chat. Sending happens on a
// background goroutine so Handle never blocks a command.
type TelegramSink struct {
	bot      sender
	chatID   int64
	interval time.Duration
	lastSend time.Time

	queue chan string
	done  chan struct{}
	once  sync.Once
}

// NewTelegramSink connects to the bot API with token.
func NewTelegramSink(token string, chatID int64) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	bot.Debug = false
	return newTelegramSink(bot, chatID, telegramSendInterval), nil
}

func newTelegramSink(bot sender, chatID int64, interval time.Duration) *TelegramSink {
	s := &TelegramSink{
		bot:      bot,
		chatID:   chatID,
		interval: interval,
		queue:    make(chan string, 100),
		done:     make(chan struct{}),
	}
	go s.run()
	log.Printf("[Telegram] notifier initialized for chat %d", chatID)
	return s
}

// Handle queues a message for notable events and drops the rest.
// When the queue is full the message is dropped.
func (s *TelegramSink) Handle(e events.Event) {
	text, ok := FormatEvent(e)
	if !ok {
		return
	}
	select {
	case s.queue <- text:
	default:
		log.Printf("[Telegram] queue full, dropping %s", e.Type)
	}
}

func (s *TelegramSink) run() {
	defer close(s.done)
	for text := range s.queue {
		if wait := s.interval - time.Since(s.lastSend); wait > 0 {
			time.Sleep(wait)
		}
		s.lastSend = time.Now()
		msg := tgbotapi.NewMessage(s.chatID, text)
		if _, err := s.bot.Send(msg); err != nil {
			log.Printf("[Telegram] send failed: %v", err)
		}
	}
}

// Stop flushes queued messages and waits for the sender to exit. Handle must
// not be called after Stop.
func (s *TelegramSink) Stop() {
	s.once.Do(func() { close(s.queue) })
	<-s.done
}

// FormatEvent renders an event as a chat message. ok is false for events that
// are not forwarded.
func FormatEvent(e events.Event) (text string, ok bool) {
	icon, ok := telegramEvents[e.Type]
	if !ok {
		return "", false
	}
	var b strings.Builder
	b.WriteString(icon)
	b.WriteString(" ")
	b.WriteString(strings.ReplaceAll(string(e.Type), "_", " "))
	if e.RoundNumber > 0 {
		fmt.Fprintf(&b, " (round %d)", e.RoundNumber)
	}
	if e.Message != "" {
		b.WriteString("\n")
		b.WriteString(e.Message)
	}
	return b.String(), true
}
