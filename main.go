package main

import (
	"embed"
	"log/slog"

	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"github.com/skald-app/skald/internal/app"
)

//go:embed all:frontend/dist
var assets embed.FS

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	slog.Info("starting app", "version", version, "commit", commit, "date", date)
	service := app.New(version)

	wailsApp := application.New(application.Options{
		Name:        "Skald",
		Description: "Push-to-talk dictation",
		Services: []application.Service{
			application.NewService(service),
		},
		Assets: application.AssetOptions{
			Handler: application.BundledAssetFileServer(assets),
		},
		Mac: application.MacOptions{
			// Don't quit when all windows are closed (we have a system tray)
			ApplicationShouldTerminateAfterLastWindowClosed: false,
		},
	})

	// Settings and history window
	mainWindow := wailsApp.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:  "Skald",
		Width:  720,
		Height: 540,
		URL:    "/",
		Mac: application.MacWindow{
			TitleBar:                application.MacTitleBarHiddenInsetUnified,
			InvisibleTitleBarHeight: 38,
		},
	})

	// Intercept window close: hide instead of destroy so tray can reopen
	mainWindow.RegisterHook(events.Common.WindowClosing, func(e *application.WindowEvent) {
		e.Cancel()
		mainWindow.Hide()
	})

	service.Init(wailsApp, mainWindow)

	systemTray := wailsApp.SystemTray.New()

	trayMenu := wailsApp.NewMenu()
	trayMenu.Add("Settings").OnClick(func(ctx *application.Context) {
		mainWindow.Show()
		mainWindow.Focus()
	})

	listening := trayMenu.AddCheckbox("Listening", service.GetVoiceStatus().Running)
	listening.OnClick(func(ctx *application.Context) {
		if ctx.ClickedMenuItem().Checked() {
			if !service.GetVoiceStatus().Initialized {
				if _, err := service.InitializeVoice(); err != nil {
					slog.Error("initialize voice input", "error", err)
					ctx.ClickedMenuItem().SetChecked(false)
					return
				}
			}
			if err := service.StartVoice(); err != nil {
				slog.Error("start voice input", "error", err)
				ctx.ClickedMenuItem().SetChecked(false)
			}
		} else {
			if err := service.StopVoice(); err != nil {
				slog.Error("stop voice input", "error", err)
			}
		}
	})

	trayMenu.AddSeparator()
	trayMenu.Add("Quit").
		SetAccelerator("CmdOrCtrl+Q").
		OnClick(func(ctx *application.Context) {
			service.Shutdown()
			wailsApp.Quit()
		})

	systemTray.SetMenu(trayMenu)

	if err := wailsApp.Run(); err != nil {
		slog.Error("run app", "error", err)
	}
}
