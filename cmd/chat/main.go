package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"bayan-ai-be/internal/bootstrap"
	"bayan-ai-be/internal/config"
	"bayan-ai-be/pkg/database"

	"github.com/fatih/color"
)

func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.ParseLogLevel(cfg.Database.LogLevel))
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	ctx := context.Background()
	if err := container.ConsumerService.Consume(ctx); err != nil {
		color.Red("History consumer not started: %v", err)
	}

	session, err := container.ChatbotService.CreateSession(ctx)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}

	color.Cyan("📖 Bayan AI, tanya seputar Juz 30")
	color.HiBlack("session %s | /reset untuk mulai ulang, /keluar untuk berhenti", session.SessionId)

	prompt := color.New(color.FgGreen, color.Bold)
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 4096), 64*1024)

	for {
		prompt.Print("\nAnda: ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())

		switch text {
		case "/keluar", "/exit":
			return
		case "/reset":
			if err := container.ChatbotService.ResetSession(ctx, session.SessionId); err != nil {
				color.Red("Gagal mengulang sesi: %v", err)
				continue
			}
			color.Yellow("Sesi diulang.")
			continue
		}

		reply := container.ChatbotService.HandleTurn(ctx, text, session.SessionId)
		color.New(color.FgCyan, color.Bold).Print("Bayan: ")
		fmt.Println(reply)
	}

	if err := scanner.Err(); err != nil {
		color.Red("Input error: %v", err)
	}
}
