package notifier

import (
	"fmt"
	"io"

	"github.com/aleister1102/autoaudit/internal/models"
)

// Renderer displays a notification to the user.
type Renderer interface {
	Render(n models.Notification)
}

// ConsoleRenderer writes notifications to a terminal-style writer.
type ConsoleRenderer struct {
	out io.Writer
}

// NewConsoleRenderer creates a renderer writing to out.
func NewConsoleRenderer(out io.Writer) *ConsoleRenderer {
	return &ConsoleRenderer{out: out}
}

// Render writes the notification as a single prefixed line.
func (cr *ConsoleRenderer) Render(n models.Notification) {
	var prefix string
	switch n.Level {
	case models.NotificationSuccess:
		prefix = "[OK]"
	case models.NotificationError:
		prefix = "[ERROR]"
	default:
		prefix = "[INFO]"
	}
	fmt.Fprintf(cr.out, "%s %s\n", prefix, n.Message)
}
