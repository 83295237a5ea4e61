//go:build windows
// +build windows

package daemon

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"syscall"
	"unsafe"

	"fyne.io/systray"
	"go.uber.org/zap"
)

//go:embed icon.ico
var trayIcon []byte

var (
	user32      = syscall.NewLazyDLL("user32.dll")
	messageBoxW = user32.NewProc("MessageBoxW")
)

const (
	MB_OK              = 0x00000000
	MB_ICONINFORMATION = 0x00000040
)

// TrayApp represents system tray application
type TrayApp struct {
	daemon *Daemon
	logger *zap.Logger
	quit   chan struct{}
}

// NewTrayApp creates a new system tray application
func NewTrayApp(daemon *Daemon, logger *zap.Logger) (*TrayApp, error) {
	return &TrayApp{
		daemon: daemon,
		logger: logger,
		quit:   make(chan struct{}),
	}, nil
}

// Run starts the system tray application (blocks until Quit)
func (t *TrayApp) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *TrayApp) onReady() {
	systray.SetIcon(trayIcon)
	systray.SetTitle("WB")
	systray.SetTooltip("Workout booking holiday cache")

	mRefreshNow := systray.AddMenuItem("Refresh Now", "Refresh cached holidays immediately")
	systray.AddSeparator()
	mStatus := systray.AddMenuItem("Status", "Show current status")
	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Exit the application")

	go func() {
		_ = t.daemon.Run(t.daemon.ctx)
	}()

	go func() {
		for {
			select {
			case <-mRefreshNow.ClickedCh:
				t.logger.Info("Refresh Now clicked from tray")
				go t.daemon.RefreshNow()
			case <-mStatus.ClickedCh:
				t.logger.Info("Status clicked from tray")
				t.showStatus()
			case <-mQuit.ClickedCh:
				t.logger.Info("Quit clicked from tray")
				t.daemon.Stop()
				systray.Quit()
				return
			case <-t.quit:
				systray.Quit()
				return
			}
		}
	}()
}

func (t *TrayApp) onExit() {
	t.logger.Info("System tray exited")
}

// Stop stops the system tray application
func (t *TrayApp) Stop() {
	select {
	case <-t.quit:
	default:
		close(t.quit)
	}
}

// ShowNotification logs a notification; systray has no balloon support
func (t *TrayApp) ShowNotification(title, message string) {
	t.logger.Info("Notification", zap.String("title", title), zap.String("message", message))
	systray.SetTooltip(title + ": " + message)
}

func (t *TrayApp) showStatus() {
	status := t.daemon.GetStatus()
	t.logger.Info("Current status", zap.Any("status", status))

	var b strings.Builder
	fmt.Fprintf(&b, "Country: %v\nInterval: %v\n", status["country"], status["interval"])
	if lastRun, ok := status["last_run"]; ok {
		fmt.Fprintf(&b, "Last run: %v\nNext run: %v\n", lastRun, status["next_run"])
	}
	if counts, ok := status["counts"].(map[int]int); ok {
		years := make([]int, 0, len(counts))
		for year := range counts {
			years = append(years, year)
		}
		sort.Ints(years)
		for _, year := range years {
			fmt.Fprintf(&b, "%d: %d holidays\n", year, counts[year])
		}
	}
	if lastErr, ok := status["last_error"]; ok {
		fmt.Fprintf(&b, "Last error: %v\n", lastErr)
	}

	showMessageBox("Holiday Cache Status", b.String())
}

func showMessageBox(title, message string) {
	titlePtr, _ := syscall.UTF16PtrFromString(title)
	messagePtr, _ := syscall.UTF16PtrFromString(message)
	messageBoxW.Call(
		0,
		uintptr(unsafe.Pointer(messagePtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		uintptr(MB_OK|MB_ICONINFORMATION),
	)
}
