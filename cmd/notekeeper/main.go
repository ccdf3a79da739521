package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/MKhiriev/go-note-keeper/internal/config"
	"github.com/MKhiriev/go-note-keeper/internal/editor"
	"github.com/MKhiriev/go-note-keeper/internal/logger"
	"github.com/MKhiriev/go-note-keeper/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewClientLogger("go-note-keeper")
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create storages")
	}

	ui := newConsoleUI()
	controller := editor.NewController(storages, ui.surface, ui, ui, cfg.Editor, log)

	if err = run(controller, ui); err != nil {
		log.Fatal().Err(err).Msg("note keeper run error")
	}
}

// consoleUI is the terminal front end: an in-memory editing surface plus
// stdin/stdout prompts for notifications and confirmations.
type consoleUI struct {
	surface *editor.MemorySurface
	in      *bufio.Scanner
}

func newConsoleUI() *consoleUI {
	return &consoleUI{
		surface: editor.NewMemorySurface(),
		in:      bufio.NewScanner(os.Stdin),
	}
}

func (ui *consoleUI) Notify(message string) {
	fmt.Println("! " + message)
}

func (ui *consoleUI) Confirm(prompt string) bool {
	fmt.Print(prompt + " [y/N] ")
	if !ui.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(ui.in.Text()))
	return answer == "y" || answer == "yes"
}

func run(controller *editor.Controller, ui *consoleUI) error {
	ctx := context.Background()

	fmt.Println(`commands: list | open <id> | new | type <text> | title <text> | image <path>`)
	fmt.Println(`          undo | redo | save | delete | cats | newcat <name> <color> | delcat <id>`)
	fmt.Println(`          filter <id> | close | quit`)

	for {
		fmt.Print("> ")
		if !ui.in.Scan() {
			break
		}

		command, arg, _ := strings.Cut(strings.TrimSpace(ui.in.Text()), " ")
		switch command {
		case "":
		case "list":
			for _, group := range controller.Timeline() {
				fmt.Println(group.Label)
				for _, note := range group.Notes {
					fmt.Printf("  %s  %s\n", note.ID, note.Title)
				}
			}
		case "open":
			if err := controller.OpenSession(ctx, arg); err != nil {
				fmt.Println("open failed:", err)
				continue
			}
			fmt.Println(ui.surface.Content())
		case "new":
			if err := controller.OpenSession(ctx, ""); err != nil {
				fmt.Println("open failed:", err)
			}
		case "type":
			ui.surface.SetContent(ui.surface.Content() + "<p>" + arg + "</p>")
			controller.ContentChanged(ctx)
		case "title":
			controller.SetTitle(ctx, arg)
		case "image":
			data, err := os.ReadFile(arg)
			if err != nil {
				fmt.Println("read failed:", err)
				continue
			}
			upload := editor.FileUpload{
				Name: arg,
				MIME: sniffImageMIME(arg),
				Size: int64(len(data)),
				Data: data,
			}
			if err := controller.EnqueueImage(ctx, upload); err != nil {
				fmt.Println("upload failed:", err)
			}
		case "undo":
			controller.Undo(ctx)
			fmt.Println(ui.surface.Content())
		case "redo":
			controller.Redo(ctx)
			fmt.Println(ui.surface.Content())
		case "save":
			controller.RequestSave(ctx)
		case "delete":
			if controller.DeleteCurrentNote(ctx) {
				fmt.Println("deleted")
			}
		case "cats":
			for _, category := range controller.Categories() {
				fmt.Printf("  %s  %s  %s\n", category.ID, category.Name, category.Color)
			}
		case "newcat":
			name, color, _ := strings.Cut(arg, " ")
			id, err := controller.CreateCategory(ctx, name, color)
			if err != nil {
				fmt.Println("create failed:", err)
				continue
			}
			fmt.Println("created", id)
		case "delcat":
			if err := controller.DeleteCategory(ctx, arg); err != nil {
				fmt.Println("delete failed:", err)
			}
		case "filter":
			controller.SwitchCategoryFilter(arg)
		case "close":
			if err := controller.CloseSession(ctx); err != nil {
				fmt.Println("close failed:", err)
			}
		case "quit", "exit":
			return controller.CloseSession(ctx)
		default:
			fmt.Println("unknown command:", command)
		}
	}

	// EOF on stdin: flush like a page unload would
	return controller.CloseSession(ctx)
}

func sniffImageMIME(path string) string {
	switch {
	case strings.HasSuffix(path, ".png"):
		return "image/png"
	case strings.HasSuffix(path, ".jpg"), strings.HasSuffix(path, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(path, ".gif"):
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
