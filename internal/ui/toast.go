package ui

import "time"

type toastLevel int

const (
	toastInfo toastLevel = iota
	toastSuccess
	toastWarn
	toastError
)

const toastDuration = 4 * time.Second

// toast is a transient, non-blocking status-line notification.
type toast struct {
	message string
	level   toastLevel
	until   time.Time
}

func (t *toast) show(message string, level toastLevel) {
	t.message = message
	t.level = level
	t.until = time.Now().Add(toastDuration)
}

func (t *toast) expire(now time.Time) {
	if t.message != "" && now.After(t.until) {
		*t = toast{}
	}
}

func (t toast) visible() bool {
	return t.message != "" && time.Now().Before(t.until)
}

func (t toast) render(styles Styles) string {
	switch t.level {
	case toastSuccess:
		return styles.SuccessText.Render(t.message)
	case toastWarn:
		return styles.WarningText.Render(t.message)
	case toastError:
		return styles.DangerText.Render(t.message)
	default:
		return styles.AccentText.Render(t.message)
	}
}
