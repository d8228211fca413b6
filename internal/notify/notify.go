package notify

import (
	"log"
	"sync"
)

// Notifier is the toast surface. Soft failures warn, primary-flow
// failures error; nothing here ever aborts a flow.
type Notifier interface {
	Info(message string)
	Warn(message string)
	Error(message string)
}

// LogNotifier writes notifications to the process log.
type LogNotifier struct{}

func (LogNotifier) Info(message string)  { log.Printf("info: %s", message) }
func (LogNotifier) Warn(message string)  { log.Printf("warn: %s", message) }
func (LogNotifier) Error(message string) { log.Printf("error: %s", message) }

// Recorder collects notifications for tests.
type Recorder struct {
	mu       sync.Mutex
	Messages []Message
}

type Message struct {
	Level string
	Text  string
}

func (r *Recorder) add(level, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Messages = append(r.Messages, Message{Level: level, Text: text})
}

func (r *Recorder) Info(message string)  { r.add("info", message) }
func (r *Recorder) Warn(message string)  { r.add("warn", message) }
func (r *Recorder) Error(message string) { r.add("error", message) }
